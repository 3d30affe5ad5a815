package subscription

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

// Purchase godoc
// @Summary      Purchase subscription
// @Description  Snapshots the plan's credits and validity into a new ledger entry.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Param        id path integer true "Client ID"
// @Param        request body PurchaseRequest true "Plan and amount paid"
// @Success      201 {object} ClientSubscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clients/{id}/subscriptions [post]
func (h *Handler) Purchase(c *gin.Context) {
	clientID, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	var req PurchaseRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sub, err := h.service.Purchase(c.Request.Context(), clientID, req.SubscriptionTypeID, req.AmountPaidCents, h.now())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// ListByClient godoc
// @Summary      List client subscriptions
// @Description  Status and days_until_expiration are derived at read time.
// @Tags         subscriptions
// @Produce      json
// @Param        id path integer true "Client ID"
// @Success      200 {array} ClientSubscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clients/{id}/subscriptions [get]
func (h *Handler) ListByClient(c *gin.Context) {
	clientID, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	subs, err := h.service.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	now := h.now()
	for i := range subs {
		subs[i].Derive(now)
	}

	c.JSON(http.StatusOK, subs)
}

// Active godoc
// @Summary      Resolve active subscription
// @Description  Returns the subscription the next credit would be taken from.
// @Tags         subscriptions
// @Produce      json
// @Param        id path integer true "Client ID"
// @Success      200 {object} ClientSubscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clients/{id}/subscriptions/active [get]
func (h *Handler) Active(c *gin.Context) {
	clientID, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	now := h.now()
	sub, err := h.service.ResolveActiveSubscription(c.Request.Context(), clientID, now)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	sub.DaysLeft = sub.DaysUntilExpiration(now)

	c.JSON(http.StatusOK, sub)
}

// Get godoc
// @Summary      Get subscription
// @Tags         subscriptions
// @Produce      json
// @Param        id path integer true "Subscription ID"
// @Success      200 {object} ClientSubscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /subscriptions/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	sub, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	sub.Derive(h.now())
	c.JSON(http.StatusOK, sub)
}

// Cancel godoc
// @Summary      Cancel subscription
// @Tags         subscriptions
// @Produce      json
// @Param        id path integer true "Subscription ID"
// @Success      200 {object} ClientSubscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /subscriptions/{id}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	sub, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// Transactions godoc
// @Summary      List credit transactions
// @Tags         subscriptions
// @Produce      json
// @Param        id path integer true "Subscription ID"
// @Success      200 {array} CreditTransaction
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /subscriptions/{id}/transactions [get]
func (h *Handler) Transactions(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	txs, err := h.service.Transactions(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, txs)
}
