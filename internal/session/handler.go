package session

import (
	"net/http"
	"time"

	"fitstudio/internal/api"
	"fitstudio/internal/apperr"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	now     func() time.Time
}

func NewHandler(service Service, now func() time.Time) *Handler {
	return &Handler{service: service, now: now}
}

// Schedule godoc
// @Summary      Schedule personal session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        request body ScheduleRequest true "Session details"
// @Success      201 {object} Session
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /sessions [post]
func (h *Handler) Schedule(c *gin.Context) {
	var req ScheduleRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sess, err := h.service.Schedule(c.Request.Context(), req, h.now())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sess)
}

// Get godoc
// @Summary      Get personal session
// @Tags         sessions
// @Produce      json
// @Param        id path integer true "Session ID"
// @Success      200 {object} Session
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /sessions/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	sess, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// ListByClient godoc
// @Summary      List client sessions
// @Tags         sessions
// @Produce      json
// @Param        id path integer true "Client ID"
// @Success      200 {array} Session
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clients/{id}/sessions [get]
func (h *Handler) ListByClient(c *gin.Context) {
	clientID, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	sessions, err := h.service.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// Reschedule godoc
// @Summary      Reschedule personal session
// @Description  Only scheduled sessions can be moved or edited.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path integer true "Session ID"
// @Param        request body RescheduleRequest true "New slot"
// @Success      200 {object} Session
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /sessions/{id} [put]
func (h *Handler) Reschedule(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sess, err := h.service.Reschedule(c.Request.Context(), id, req, h.now())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// Complete godoc
// @Summary      Complete personal session
// @Description  Debits one credit. A rejected debit is returned as a warning.
// @Tags         sessions
// @Produce      json
// @Param        id path integer true "Session ID"
// @Success      200 {object} CompletionResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /sessions/{id}/complete [post]
func (h *Handler) Complete(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Complete(c.Request.Context(), id, h.now())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	resp := CompletionResponse{
		Session:          result.Session,
		AlreadyCompleted: result.AlreadyCompleted,
	}
	if result.DeductionErr != nil {
		resp.Warning = result.DeductionErr.Error()
		resp.WarningCode = apperr.CodeOf(result.DeductionErr)
	}

	c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary      Cancel personal session
// @Tags         sessions
// @Produce      json
// @Param        id path integer true "Session ID"
// @Success      200 {object} Session
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /sessions/{id}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	sess, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// NoShow godoc
// @Summary      Mark session no-show
// @Tags         sessions
// @Produce      json
// @Param        id path integer true "Session ID"
// @Success      200 {object} Session
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /sessions/{id}/no-show [post]
func (h *Handler) NoShow(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	sess, err := h.service.MarkNoShow(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}
