package notification

import (
	"context"

	"junkbutler/config"
	"junkbutler/models"

	"go.uber.org/zap"
)

const subjectBookingConfirmation = "Your Junk Butler pickup is booked"

// Mailer sends customer-facing email.
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, b models.Booking) error
}

// NewMailer returns the SMTP mailer when SMTP_HOST is set, otherwise a mailer
// that only logs what it would have sent.
func NewMailer(cfg config.Config, logger *zap.Logger) Mailer {
	if cfg.SMTPHost == "" {
		return &LogMailer{Logger: logger}
	}
	return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFromEmail, cfg.SMTPFromName)
}

// LogMailer renders the message and logs it instead of sending.
type LogMailer struct {
	Logger *zap.Logger
}

func (m *LogMailer) SendBookingConfirmation(ctx context.Context, b models.Booking) error {
	body, err := renderBookingConfirmation(b)
	if err != nil {
		return err
	}
	m.Logger.Info("notification: SMTP not configured, confirmation not sent",
		zap.String("bookingId", b.BookingID), zap.String("to", b.Record.Email), zap.Int("bytes", len(body)))
	return nil
}
