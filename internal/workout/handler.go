package workout

import (
	"net/http"
	"time"

	"fitstudio/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	now     func() time.Time
}

func NewHandler(service Service, now func() time.Time) *Handler {
	return &Handler{service: service, now: now}
}

// Create godoc
// @Summary      Create group workout
// @Tags         workouts
// @Accept       json
// @Produce      json
// @Param        request body WorkoutRequest true "Workout details"
// @Success      201 {object} Workout
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /workouts [post]
func (h *Handler) Create(c *gin.Context) {
	var req WorkoutRequest
	if !api.BindJSON(c, &req) {
		return
	}

	w, err := h.service.Create(c.Request.Context(), req, h.now())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, w)
}

// List godoc
// @Summary      List group workouts
// @Description  Past workouts are included with all=true.
// @Tags         workouts
// @Produce      json
// @Param        all query boolean false "Include past workouts"
// @Success      200 {array} WorkoutWithAvailability
// @Failure      500 {object} api.ErrorResponse
// @Router       /workouts [get]
func (h *Handler) List(c *gin.Context) {
	onlyUpcoming := c.Query("all") != "true"

	workouts, err := h.service.List(c.Request.Context(), onlyUpcoming, h.now())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, workouts)
}

// Get godoc
// @Summary      Get group workout
// @Tags         workouts
// @Produce      json
// @Param        id path integer true "Workout ID"
// @Success      200 {object} WorkoutWithAvailability
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /workouts/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	w, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, w)
}

// Update godoc
// @Summary      Update group workout
// @Tags         workouts
// @Accept       json
// @Produce      json
// @Param        id path integer true "Workout ID"
// @Param        request body WorkoutRequest true "Workout details"
// @Success      200 {object} Workout
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /workouts/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	var req WorkoutRequest
	if !api.BindJSON(c, &req) {
		return
	}

	w, err := h.service.Update(c.Request.Context(), id, req, h.now())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, w)
}

// UpdateStatus godoc
// @Summary      Change workout status
// @Tags         workouts
// @Accept       json
// @Produce      json
// @Param        id path integer true "Workout ID"
// @Param        request body UpdateStatusRequest true "New status"
// @Success      200 {object} Workout
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /workouts/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !api.BindJSON(c, &req) {
		return
	}

	w, err := h.service.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, w)
}
