package plan

import (
	"net/http"

	"fitstudio/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Create subscription plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        request body PlanRequest true "Plan definition"
// @Success      201 {object} Plan
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /plans [post]
func (h *Handler) Create(c *gin.Context) {
	var req PlanRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// List godoc
// @Summary      List subscription plans
// @Description  Deactivated plans are hidden with active=true.
// @Tags         plans
// @Produce      json
// @Param        active query boolean false "Only purchasable plans"
// @Success      200 {array} Plan
// @Failure      500 {object} api.ErrorResponse
// @Router       /plans [get]
func (h *Handler) List(c *gin.Context) {
	plans, err := h.service.List(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plans)
}

// Update godoc
// @Summary      Update subscription plan
// @Description  Existing subscriptions keep their purchase-time snapshot.
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        id path integer true "Plan ID"
// @Param        request body PlanRequest true "Plan definition"
// @Success      200 {object} Plan
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /plans/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	var req PlanRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
