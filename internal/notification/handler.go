package notification

import (
	"net/http"
	"strconv"
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

// threshold reads ?threshold=, falling back to the configured default.
func (h *Handler) threshold(c *gin.Context) (int, bool) {
	raw := c.Query("threshold")
	if raw == "" {
		return h.service.DefaultThreshold(), true
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		api.RespondError(c, ErrInvalidThreshold)
		return 0, false
	}
	return n, true
}

// LowCredits godoc
// @Summary      List low-credit clients
// @Tags         notifications
// @Produce      json
// @Param        threshold query integer false "Credit threshold, defaults to the configured value"
// @Success      200 {object} LowCreditResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /notifications/low-credits [get]
func (h *Handler) LowCredits(c *gin.Context) {
	threshold, ok := h.threshold(c)
	if !ok {
		return
	}

	clients, err := h.service.FindLowCreditClients(c.Request.Context(), threshold, h.now())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LowCreditResponse{
		Threshold: threshold,
		Clients:   clients,
		Stats:     Summarize(clients),
	})
}

// Notify godoc
// @Summary      Send low-credit reminders
// @Description  Queues one reminder per client below the threshold.
// @Tags         notifications
// @Produce      json
// @Param        threshold query integer false "Credit threshold, defaults to the configured value"
// @Success      200 {object} NotifyReport
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /notifications/low-credits [post]
func (h *Handler) Notify(c *gin.Context) {
	threshold, ok := h.threshold(c)
	if !ok {
		return
	}

	report, err := h.service.NotifyLowCredit(c.Request.Context(), threshold, h.now())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
