package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/thecloudsteward/proposals/pkg/api/errors"
	"github.com/thecloudsteward/proposals/pkg/models"
	"github.com/thecloudsteward/proposals/pkg/pages"
	"github.com/thecloudsteward/proposals/pkg/payments"
	"github.com/thecloudsteward/proposals/pkg/pricing"
)

// CheckoutHandler handles checkout session endpoints
type CheckoutHandler struct {
	paymentService *payments.Service
	validator      *validator.Validate
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(paymentService *payments.Service) *CheckoutHandler {
	return &CheckoutHandler{
		paymentService: paymentService,
		validator:      validator.New(),
	}
}

// CreateCheckoutSession handles creating a Stripe checkout session for
// a proposal pricing option and returns the hosted checkout URL.
func (h *CheckoutHandler) CreateCheckoutSession(c echo.Context) error {
	var req models.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	resp, err := h.paymentService.CreateCheckoutSession(c.Request().Context(), &req)
	if err != nil {
		switch {
		case stderrors.Is(err, pages.ErrNotFound):
			return errors.NotFound(c)
		case stderrors.Is(err, pricing.ErrUnknownOption), stderrors.Is(err, pricing.ErrInvalidPrice):
			return errors.BadRequest(c, err.Error())
		}

		var providerErr *payments.ProviderError
		if stderrors.As(err, &providerErr) {
			return errors.Provider(c, providerErr)
		}

		return errors.Internal(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// OrderSuccess returns the normalized outcome of a checkout session for
// the confirmation page. All failures on this path map to 400; the only
// caller is the success page polling with an id Stripe just issued.
func (h *CheckoutHandler) OrderSuccess(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return errors.BadRequest(c, "session_id is required")
	}

	outcome, err := h.paymentService.GetCheckoutSessionDetails(c.Request().Context(), sessionID)
	if err != nil {
		return errors.BadRequest(c, err.Error())
	}

	return c.JSON(http.StatusOK, outcome)
}
