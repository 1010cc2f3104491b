package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPaymentInstructions_ConsoleMode(t *testing.T) {
	svc := NewService("hello@thecloudsteward.com", "The Cloud Steward", "")
	assert.False(t, svc.useSendGrid)

	// Without an API key the send is a no-op log line and never fails.
	require.NoError(t, svc.SendPaymentInstructions("jane@acme.example", 100000, "usd"))
	require.NoError(t, svc.SendPaymentInstructions("jane@acme.example", 0, "usd"))
}

func TestFormatAmount(t *testing.T) {
	svc := NewService("hello@thecloudsteward.com", "The Cloud Steward", "")

	tests := []struct {
		amount   int64
		currency string
		want     string
	}{
		{100000, "usd", "$1,000.00 USD"},
		{24900, "usd", "$249.00 USD"},
		{104900, "usd", "$1,049.00 USD"},
		{50, "usd", "$0.50 USD"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, svc.formatAmount(tt.amount, tt.currency))
	}
}

func TestAmountHTML(t *testing.T) {
	assert.Equal(t, "", amountHTML(""))
	assert.Equal(t, "<p>Amount paid: $249.00 USD</p>", amountHTML("Amount paid: $249.00 USD\n\n"))
}
