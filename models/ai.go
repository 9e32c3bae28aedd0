package models

import (
	"encoding/json"
	"fmt"
)

// ItemTypes accepts either a single string or a list of strings.
type ItemTypes []string

func (t *ItemTypes) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*t = nil
		} else {
			*t = ItemTypes{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("item_details.type: want string or list of strings: %w", err)
	}
	*t = many
	return nil
}

type ItemDetails struct {
	Type     ItemTypes `json:"type"`
	Quantity float64   `json:"quantity"`
}

// EstimatePayload is the structured object the assistant emits once it has every detail.
type EstimatePayload struct {
	ItemDetails         ItemDetails `json:"item_details"`
	EstimatedCost       float64     `json:"estimated_cost"`
	Location            string      `json:"location"`
	AccessNotes         string      `json:"access_notes"`
	RequestedPickupTime string      `json:"requested_pickup_time"`
	ContactInfo         ContactInfo `json:"contact_info"`
	PhotosProvided      bool        `json:"photos_provided"`
}
