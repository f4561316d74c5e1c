package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"creator-marketplace/internal/auth"
	"creator-marketplace/internal/models"
	"creator-marketplace/internal/services"
)

// maxWebhookBody caps the size of a provider webhook payload
const maxWebhookBody = 64 << 10

// BillingHandler handles subscription purchase and the payment webhook
type BillingHandler struct {
	subscriptions *services.SubscriptionService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(subscriptions *services.SubscriptionService) *BillingHandler {
	return &BillingHandler{subscriptions: subscriptions}
}

// StartCheckout opens a hosted checkout for a subscription tier
// POST /api/checkout
func (h *BillingHandler) StartCheckout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, _ := auth.GetUserID(c)
	session, err := h.subscriptions.StartCheckout(c.Request.Context(), userID, req.Tier)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetSubscription returns the current brand's tier, credits and status
// GET /api/subscription
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	sub, err := h.subscriptions.GetSubscription(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Webhook receives signed payment provider events. The raw body is needed
// for signature verification.
// POST /webhook
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	if err := h.subscriptions.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
