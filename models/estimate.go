package models

import (
	"strings"
	"time"
)

type Quantity string

const (
	QuantitySingle   Quantity = "single"
	QuantityMultiple Quantity = "multiple"
)

type ContactInfo struct {
	Name  string `json:"name" bson:"name"`
	Phone string `json:"phone" bson:"phone"`
	Email string `json:"email" bson:"email"`
}

// Address is the structured form of a free-text location.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// EstimateSession is the estimate being assembled by one dialogue.
type EstimateSession struct {
	Quantity    Quantity    `json:"quantity,omitempty"`
	Items       []string    `json:"items"`
	Photos      []string    `json:"photos"`
	Resale      bool        `json:"resale"`
	Price       float64     `json:"price"`
	Location    string      `json:"location,omitempty"`
	AccessNotes string      `json:"accessNotes,omitempty"`
	PickupTime  string      `json:"pickupTime,omitempty"`
	ContactInfo ContactInfo `json:"contactInfo"`
}

// AddItem appends tag unless it is already present. Reports whether it was added.
func (s *EstimateSession) AddItem(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || s.HasItem(tag) {
		return false
	}
	s.Items = append(s.Items, tag)
	return true
}

func (s *EstimateSession) HasItem(tag string) bool {
	for _, it := range s.Items {
		if it == tag {
			return true
		}
	}
	return false
}

func (s *EstimateSession) AddPhotos(refs ...string) {
	for _, r := range refs {
		if r != "" {
			s.Photos = append(s.Photos, r)
		}
	}
}

// IsComplete gates the completion handoff.
func (s EstimateSession) IsComplete() bool {
	return len(s.Items) > 0 &&
		s.Quantity != "" &&
		strings.TrimSpace(s.Location) != "" &&
		strings.TrimSpace(s.AccessNotes) != "" &&
		strings.TrimSpace(s.PickupTime) != ""
}

// Clone copies the session so later mutation cannot leak into a snapshot.
func (s EstimateSession) Clone() EstimateSession {
	out := s
	out.Items = append([]string(nil), s.Items...)
	out.Photos = append([]string(nil), s.Photos...)
	return out
}

// CompletedEstimate is the read-only snapshot handed to the booking form.
type CompletedEstimate struct {
	SessionID      string      `json:"sessionId"`
	Source         string      `json:"source"`
	Quantity       Quantity    `json:"quantity"`
	Items          []string    `json:"items"`
	Photos         []string    `json:"photos"`
	Resale         bool        `json:"resale"`
	Price          float64     `json:"price"`
	Location       string      `json:"location"`
	Address        Address     `json:"address"`
	AccessNotes    string      `json:"accessNotes"`
	PickupTime     string      `json:"pickupTime"`
	PickupDate     string      `json:"pickupDate,omitempty"`
	PickupTimeSlot string      `json:"pickupTimeSlot,omitempty"`
	ContactInfo    ContactInfo `json:"contactInfo"`
	CompletedAt    time.Time   `json:"completedAt"`
}
