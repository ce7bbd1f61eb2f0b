package email

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	return &SMTPEmailService{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

// MismatchAlert describes a checkout whose provider total differs from the
// order total.
type MismatchAlert struct {
	PaymentID     uint
	OrderID       uint
	SessionID     string
	ProviderTotal string
	OrderTotal    string
}

func (s *SMTPEmailService) SendOrderAmountMismatchAlert(to string, alert MismatchAlert) error {
	subject := fmt.Sprintf("Checkout total mismatch on order %d", alert.OrderID)

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Checkout total mismatch</h2>
			<p>The payment was recorded with the provider total. Please review the order.</p>
			<table>
				<tr><td>Order</td><td>%d</td></tr>
				<tr><td>Payment</td><td>%d</td></tr>
				<tr><td>Checkout session</td><td>%s</td></tr>
				<tr><td>Provider total</td><td>%s</td></tr>
				<tr><td>Order total</td><td>%s</td></tr>
			</table>
		</body>
		</html>
	`, alert.OrderID, alert.PaymentID, html.EscapeString(alert.SessionID),
		html.EscapeString(alert.ProviderTotal), html.EscapeString(alert.OrderTotal))

	plainBody := fmt.Sprintf(`
Checkout total mismatch

The payment was recorded with the provider total. Please review the order.

Order:            %d
Payment:          %d
Checkout session: %s
Provider total:   %s
Order total:      %s
	`, alert.OrderID, alert.PaymentID, alert.SessionID, alert.ProviderTotal, alert.OrderTotal)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	if s.config.FromName != "" {
		m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	} else {
		m.SetHeader("From", s.config.FromAddress)
	}
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
