package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/swarnika/swarnika-backend/config"
	"github.com/swarnika/swarnika-backend/pkg/logger"
)

// Mailer sends transactional mail over SMTP. With no SMTP credentials
// configured it logs the message instead, which keeps local development
// working without an outbound relay.
type Mailer struct {
	cfg   config.SMTPConfig
	store config.StoreConfig
}

func New(cfg config.SMTPConfig, store config.StoreConfig) *Mailer {
	return &Mailer{cfg: cfg, store: store}
}

// SendOrderConfirmation mails the customer their order summary.
func (m *Mailer) SendOrderConfirmation(toEmail, customerName, orderNumber string, totalAmount float64) error {
	subject := fmt.Sprintf("[%s] Order %s confirmed", m.store.Name, orderNumber)
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #f5f5f5;">
	<div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 40px; border-radius: 10px;">
		<h1 style="color: #333;">Thank you for your order, %s</h1>
		<p style="color: #666; line-height: 1.6;">
			We have received your order <strong>%s</strong> for a total of
			<strong>&#8377;%.2f</strong>. We will email you again when it ships.
		</p>
		<p style="color: #999; font-size: 14px;">
			You can track your order any time from your account page.
		</p>
	</div>
</body>
</html>`, customerName, orderNumber, totalAmount)

	return m.send(toEmail, subject, body)
}

// SendOrderAlert mails the configured operator address about a new order.
func (m *Mailer) SendOrderAlert(orderNumber, customerName, customerEmail string, totalAmount float64) error {
	if m.store.AdminEmail == "" {
		logger.Debug("No admin email configured, skipping order alert", logger.Fields{
			"order_number": orderNumber,
		})
		return nil
	}
	subject := fmt.Sprintf("[%s] New order %s", m.store.Name, orderNumber)
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif;">
	<p>New order <strong>%s</strong> from %s (%s), total &#8377;%.2f.</p>
</body>
</html>`, orderNumber, customerName, customerEmail, totalAmount)

	return m.send(m.store.AdminEmail, subject, body)
}

// SendCartReminder nudges a customer whose cart went idle.
func (m *Mailer) SendCartReminder(toEmail, customerName string, itemCount int) error {
	subject := fmt.Sprintf("[%s] Your cart is waiting", m.store.Name)
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #f5f5f5;">
	<div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 40px; border-radius: 10px;">
		<h1 style="color: #333;">Still thinking it over, %s?</h1>
		<p style="color: #666; line-height: 1.6;">
			You left %d item(s) in your cart. Gold rates change daily, so
			prices are confirmed at checkout.
		</p>
	</div>
</body>
</html>`, customerName, itemCount)

	return m.send(toEmail, subject, body)
}

func (m *Mailer) send(toEmail, subject, body string) error {
	if m.cfg.Email == "" || m.cfg.Password == "" {
		logger.Info("[DEV MODE] email suppressed", logger.Fields{
			"to":      toEmail,
			"subject": subject,
		})
		return nil
	}

	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		m.cfg.Email, toEmail, subject, body,
	))

	auth := smtp.PlainAuth("", m.cfg.Email, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port

	if err := smtp.SendMail(addr, auth, m.cfg.Email, []string{toEmail}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Debug("Email sent", logger.Fields{"to": toEmail, "subject": subject})
	return nil
}
