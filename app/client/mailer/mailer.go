package mailer

import (
	"fmt"
	"log/slog"

	"mindline/app/config"
	"mindline/app/service/booking"

	"github.com/samber/do"
	"gopkg.in/gomail.v2"
)

type Client struct {
	cfg    *config.Config
	dialer *gomail.Dialer
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	client := &Client{cfg: cfg}

	if cfg.Mail.Host != "" {
		client.dialer = gomail.NewDialer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password)
	}

	return client, nil
}

// SendConfirmation emails the booking confirmation to the booked address.
func (c *Client) SendConfirmation(record booking.Record) error {
	if c.cfg.Mail.Disabled || c.dialer == nil {
		slog.Info("Confirmation email skipped (mail disabled)", "email", record.Email)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", c.cfg.Mail.From)
	msg.SetHeader("To", record.Email)
	msg.SetHeader("Subject", "Appointment Confirmation")
	msg.SetBody("text/plain", confirmationBody(record))

	if err := c.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	return nil
}

func confirmationBody(record booking.Record) string {
	return fmt.Sprintf(`Dear %s,

Your appointment has been confirmed.

Date: %s
Time: %s
Specialist: %s
Location: %s
Phone: %s
Condition: %s
Additional Notes: %s

Thank you for booking with us!

Best regards,
Mental Health Support Team
`,
		record.Name,
		record.Date,
		record.Time,
		record.Specialty,
		record.Location,
		record.Phone,
		record.Condition,
		record.Notes,
	)
}
