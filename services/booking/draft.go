package booking

import (
	"strings"

	"junkbutler/models"
	"junkbutler/services/estimate"
	"junkbutler/services/normalizer"
)

// DraftFromEstimate pre-fills the booking form from a completed estimate.
// Fields the estimate could not supply stay blank for the customer to fill in.
func DraftFromEstimate(est models.CompletedEstimate) models.BookingRecord {
	rec := models.BookingRecord{
		EstimateID: est.SessionID,
		Address:    est.Address.Street,
		City:       est.Address.City,
		State:      est.Address.State,
		ZipCode:    est.Address.Zip,
		Date:       est.PickupDate,
		TimeSlot:   est.PickupTimeSlot,
		Items:      make([]string, 0, len(est.Items)),
		Photos:     append([]string{}, est.Photos...),
		Price:      est.Price,
		Resale:     est.Resale,
	}
	for _, tag := range est.Items {
		rec.Items = append(rec.Items, estimate.ItemLabel(tag))
	}

	rec.FirstName, rec.LastName = normalizer.SplitName(blankPlaceholder(est.ContactInfo.Name))
	rec.Phone = blankPlaceholder(est.ContactInfo.Phone)
	rec.Email = blankPlaceholder(est.ContactInfo.Email)
	rec.SpecialInstructions = blankPlaceholder(est.AccessNotes)
	return rec
}

func blankPlaceholder(v string) string {
	v = strings.TrimSpace(v)
	if estimate.IsPlaceholder(v) {
		return ""
	}
	return v
}
