package models

// CheckoutRequest represents a request to start a checkout session
type CheckoutRequest struct {
	Slug      string `json:"slug" validate:"required"`
	Option    string `json:"option" validate:"required"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	PlanTitle string `json:"plan_title,omitempty"`
}

// CheckoutResponse carries the Stripe-hosted checkout URL
type CheckoutResponse struct {
	URL string `json:"url"`
}

// SessionOutcome is the normalized summary of a completed checkout
// session rendered on the confirmation page. ReceiptURL is null until
// the provider backfills a charge (e.g. a trialing subscription with
// nothing due today).
type SessionOutcome struct {
	CustomerName string  `json:"customer_name"`
	AmountTotal  int64   `json:"amount_total"`
	Currency     string  `json:"currency"`
	ReceiptURL   *string `json:"receipt_url"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
