package notification

import (
	"context"
	"testing"

	"junkbutler/config"
	"junkbutler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func sampleBooking() models.Booking {
	return models.Booking{
		BookingID: "B4242",
		Record: models.BookingRecord{
			FirstName:           "Jane",
			Email:               "jane@example.com",
			Address:             "123 Main St",
			City:                "Springfield",
			State:               "IL",
			ZipCode:             "62701",
			Date:                "2025-06-11",
			TimeSlot:            "12:00 PM - 2:00 PM",
			Items:               []string{"Furniture", "Appliances"},
			Price:               75,
			SpecialInstructions: "Gate code <1234>",
		},
	}
}

func TestRenderBookingConfirmation(t *testing.T) {
	html, err := renderBookingConfirmation(sampleBooking())
	require.NoError(t, err)
	assert.Contains(t, html, "Hi Jane,")
	assert.Contains(t, html, "<strong>B4242</strong>")
	assert.Contains(t, html, "123 Main St, Springfield, IL 62701")
	assert.Contains(t, html, "Furniture, Appliances")
	assert.Contains(t, html, "$75.00")
	assert.Contains(t, html, "Gate code &lt;1234&gt;")
	assert.NotContains(t, html, "resale")
}

func TestNewMailerWithoutSMTPLogs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	mailer := NewMailer(config.Config{}, zap.New(core))
	require.IsType(t, &LogMailer{}, mailer)

	require.NoError(t, mailer.SendBookingConfirmation(context.Background(), sampleBooking()))
	entries := logs.FilterField(zap.String("bookingId", "B4242")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "jane@example.com", entries[0].ContextMap()["to"])
}

func TestNewMailerWithSMTP(t *testing.T) {
	mailer := NewMailer(config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587}, zap.NewNop())
	assert.IsType(t, &SMTPMailer{}, mailer)
}
