package models

import "time"

// BookingRecord is the flattened booking form submitted by the customer.
type BookingRecord struct {
	EstimateID          string   `json:"estimateId,omitempty" bson:"estimateId,omitempty"`
	FirstName           string   `json:"firstName" bson:"firstName" validate:"required"`
	LastName            string   `json:"lastName" bson:"lastName" validate:"required"`
	Email               string   `json:"email" bson:"email" validate:"required,email"`
	Phone               string   `json:"phone" bson:"phone" validate:"required,min=7"`
	Address             string   `json:"address" bson:"address" validate:"required"`
	City                string   `json:"city" bson:"city" validate:"required"`
	State               string   `json:"state" bson:"state" validate:"required,len=2,alpha"`
	ZipCode             string   `json:"zipCode" bson:"zipCode" validate:"required,len=5,numeric"`
	Date                string   `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot            string   `json:"timeSlot" bson:"timeSlot" validate:"required,timeslot"`
	Items               []string `json:"items" bson:"items" validate:"required,min=1,dive,required"`
	Photos              []string `json:"photos,omitempty" bson:"photos,omitempty"`
	SpecialInstructions string   `json:"specialInstructions" bson:"specialInstructions"`
	Price               float64  `json:"price" bson:"price" validate:"gte=0"`
	Resale              bool     `json:"resale" bson:"resale"`
}

// BookingResult is what the submission endpoint answers.
type BookingResult struct {
	Success   bool   `json:"success"`
	BookingID string `json:"booking_id,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

const (
	BookingStatusScheduled = "scheduled"
	BookingStatusConfirmed = "confirmed"
)

// Booking is a submitted record as kept for the admin pickup view.
type Booking struct {
	ID          string        `json:"id" bson:"id"`
	BookingID   string        `json:"bookingId" bson:"bookingId"`
	Provider    string        `json:"provider" bson:"provider"`
	Record      BookingRecord `json:"record" bson:"record"`
	Status      string        `json:"status" bson:"status"`
	ConfirmedAt *time.Time    `json:"confirmedAt,omitempty" bson:"confirmedAt,omitempty"`
	CreatedAt   time.Time     `json:"createdAt" bson:"createdAt"`
}

// BookingConfirmationPayload is carried by the booking confirmation task.
type BookingConfirmationPayload struct {
	BookingID string `json:"bookingId"`
	Email     string `json:"email"`
	Date      string `json:"date"`
	TimeSlot  string `json:"timeSlot"`
}
