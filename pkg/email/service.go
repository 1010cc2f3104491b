package email

import (
	"fmt"
	"log"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Service sends the post-payment follow-up email.
type Service struct {
	fromEmail   string
	fromName    string
	sendGridKey string
	useSendGrid bool
	printer     *message.Printer
}

// NewService creates a new email service.
// If sendGridAPIKey is provided, emails are sent via SendGrid;
// otherwise they are logged to the console (development mode).
func NewService(fromEmail, fromName, sendGridAPIKey string) *Service {
	useSendGrid := sendGridAPIKey != ""
	if useSendGrid {
		log.Printf("✅ Email service initialized with SendGrid")
	} else {
		log.Printf("⚠️  Email service in console-only mode (set SENDGRID_API_KEY for production)")
	}

	return &Service{
		fromEmail:   fromEmail,
		fromName:    fromName,
		sendGridKey: sendGridAPIKey,
		useSendGrid: useSendGrid,
		printer:     message.NewPrinter(language.AmericanEnglish),
	}
}

// SendPaymentInstructions sends the "next steps" email after a
// successful payment. amountPaid is in minor units; zero (a trialing
// subscription) omits the amount line.
func (s *Service) SendPaymentInstructions(toEmail string, amountPaid int64, currency string) error {
	subject := "Welcome aboard – next steps for your Cloud Steward project"

	amountLine := ""
	if amountPaid > 0 {
		amountLine = fmt.Sprintf("Amount paid: %s\n\n", s.formatAmount(amountPaid, currency))
	}

	plainText := fmt.Sprintf(`Hi there,

Thanks for your purchase! We'll reach out shortly with onboarding details.

%sIf you have any questions just reply to this email.

— The Cloud Steward Team`, amountLine)

	body := fmt.Sprintf(`
		<html>
		<body>
			<p>Hi there,</p>
			<p>Thanks for your purchase! We'll reach out shortly with onboarding details.</p>
			%s
			<p>If you have any questions just reply to this email.</p>
			<p>— The Cloud Steward Team</p>
		</body>
		</html>
	`, amountHTML(amountLine))

	if s.useSendGrid {
		return s.sendViaSendGrid(toEmail, subject, body, plainText)
	}

	// Development mode: log to console. The recipient address is the
	// one thing worth seeing here.
	log.Printf("📧 [EMAIL] Payment instructions to: %s", toEmail)
	log.Printf("   Subject: %s", subject)
	return nil
}

// sendViaSendGrid sends an email through the SendGrid API
func (s *Service) sendViaSendGrid(toEmail, subject, htmlBody, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail("", toEmail)
	msg := mail.NewSingleEmail(from, subject, to, plainText, htmlBody)

	client := sendgrid.NewSendClient(s.sendGridKey)
	resp, err := client.Send(msg)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected message: status %d", resp.StatusCode)
	}

	return nil
}

// formatAmount renders minor units as a localized currency string,
// e.g. 100000 "usd" -> "$1,000.00 USD".
func (s *Service) formatAmount(amountPaid int64, currency string) string {
	dollars := float64(amountPaid) / 100
	return s.printer.Sprintf("$%.2f %s", dollars, strings.ToUpper(currency))
}

func amountHTML(amountLine string) string {
	if amountLine == "" {
		return ""
	}
	return fmt.Sprintf("<p>%s</p>", strings.TrimSpace(amountLine))
}
