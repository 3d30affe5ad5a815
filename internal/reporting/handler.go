package reporting

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

// Dashboard godoc
// @Summary      Studio dashboard
// @Tags         reporting
// @Produce      json
// @Success      200 {object} Dashboard
// @Failure      500 {object} api.ErrorResponse
// @Router       /dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.service.Dashboard(c.Request.Context(), h.now())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
