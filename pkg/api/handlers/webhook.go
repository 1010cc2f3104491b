package handlers

import (
	stderrors "errors"
	"io"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/thecloudsteward/proposals/pkg/models"
	"github.com/thecloudsteward/proposals/pkg/payments"
)

// WebhookHandler handles inbound Stripe webhook events
type WebhookHandler struct {
	webhookService *payments.WebhookService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookService *payments.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// HandleStripeWebhook verifies and dispatches a signed Stripe event.
// Responds 400 until the signature is verified, 200 afterwards — even
// when the downstream notification fails.
func (h *WebhookHandler) HandleStripeWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_body",
			Message: "Failed to read request body",
		})
	}

	signature := c.Request().Header.Get("Stripe-Signature")
	if signature == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "missing_signature",
		})
	}

	if err := h.webhookService.HandleEvent(c.Request().Context(), body, signature); err != nil {
		if stderrors.Is(err, payments.ErrInvalidSignature) {
			log.Printf("[WEBHOOK] signature verification failed: %v", err)
		}
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "invalid_signature",
		})
	}

	return c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
	})
}
