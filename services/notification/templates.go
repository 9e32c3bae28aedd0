package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"junkbutler/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type bookingConfirmationData struct {
	Title               string
	FirstName           string
	BookingID           string
	Date                string
	TimeSlot            string
	Address             string
	Items               string
	Price               string
	SpecialInstructions string
	Resale              bool
}

func renderBookingConfirmation(b models.Booking) (string, error) {
	r := b.Record
	data := bookingConfirmationData{
		Title:               "Pickup confirmed",
		FirstName:           r.FirstName,
		BookingID:           b.BookingID,
		Date:                r.Date,
		TimeSlot:            r.TimeSlot,
		Address:             fmt.Sprintf("%s, %s, %s %s", r.Address, r.City, r.State, r.ZipCode),
		Items:               strings.Join(r.Items, ", "),
		Price:               fmt.Sprintf("$%.2f", r.Price),
		SpecialInstructions: r.SpecialInstructions,
		Resale:              r.Resale,
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "booking_confirmation.html", data); err != nil {
		return "", fmt.Errorf("render booking confirmation: %w", err)
	}
	return buf.String(), nil
}
