package client

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
// @Summary      Register client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body CreateClientRequest true "Client details"
// @Success      201 {object} Client
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clients [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateClientRequest
	if !api.BindJSON(c, &req) {
		return
	}

	client, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, client)
}

// List godoc
// @Summary      List clients
// @Description  Optionally filtered by status.
// @Tags         clients
// @Produce      json
// @Param        status query string false "active, inactive or suspended"
// @Success      200 {array} Client
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clients [get]
func (h *Handler) List(c *gin.Context) {
	clients, err := h.service.List(c.Request.Context(), Status(c.Query("status")))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, clients)
}

// Get godoc
// @Summary      Get client
// @Tags         clients
// @Produce      json
// @Param        id path integer true "Client ID"
// @Success      200 {object} Client
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clients/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	client, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateStatus godoc
// @Summary      Change client status
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id path integer true "Client ID"
// @Param        request body UpdateStatusRequest true "New status"
// @Success      200 {object} Client
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clients/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !api.BindJSON(c, &req) {
		return
	}

	client, err := h.service.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, client)
}
