package marketplace

import (
	"fmt"
	"math"
	"time"

	"junkbutler/models"
)

const (
	// DonateAfterDays is when an unsold listing leaves the marketplace.
	DonateAfterDays = 60
	ReclaimFeeRate  = 0.25
	ConsignorShare  = 0.40
)

type markdownStage struct {
	FromDay int
	Percent int
}

var schedule = []markdownStage{
	{FromDay: 0, Percent: 0},
	{FromDay: 10, Percent: 15},
	{FromDay: 30, Percent: 35},
	{FromDay: 55, Percent: 70},
}

const day = 24 * time.Hour

// DaysListed counts whole days since listedAt, never negative.
func DaysListed(listedAt, now time.Time) int {
	if now.Before(listedAt) {
		return 0
	}
	return int(now.Sub(listedAt) / day)
}

// StageFor returns the schedule index in force after days on the marketplace.
func StageFor(days int) int {
	stage := 0
	for i, s := range schedule {
		if days >= s.FromDay {
			stage = i
		}
	}
	return stage
}

// Derive computes the price state of l as of now. Listings that are not yet
// listed, or are closed, show their original price and no schedule.
func Derive(l models.Listing, now time.Time) models.ListingView {
	v := models.ListingView{
		Listing:             l,
		CurrentPrice:        l.OriginalPrice,
		NextMarkdownPercent: schedule[1].Percent,
	}
	if l.Status != models.ListingListed || l.ListedAt == nil {
		v.ReclaimFeeQuote = roundCents(v.CurrentPrice * ReclaimFeeRate)
		return v
	}

	v.DaysListed = DaysListed(*l.ListedAt, now)
	v.MarkdownStage = StageFor(v.DaysListed)
	v.MarkdownPercent = schedule[v.MarkdownStage].Percent
	v.CurrentPrice = roundCents(l.OriginalPrice * (1 - float64(v.MarkdownPercent)/100))
	v.ReclaimFeeQuote = roundCents(v.CurrentPrice * ReclaimFeeRate)

	nextDay := DonateAfterDays
	v.NextMarkdownPercent = 100
	if v.MarkdownStage+1 < len(schedule) {
		next := schedule[v.MarkdownStage+1]
		nextDay, v.NextMarkdownPercent = next.FromDay, next.Percent
	}
	at := l.ListedAt.Add(time.Duration(nextDay) * day)
	v.NextMarkdownAt = &at
	v.DaysUntilNextMarkdown = nextDay - v.DaysListed
	if v.DaysUntilNextMarkdown < 0 {
		v.DaysUntilNextMarkdown = 0
	}
	v.MarkdownNote = markdownNote(v.MarkdownStage, v.DaysUntilNextMarkdown)
	return v
}

func markdownNote(stage, days int) string {
	switch stage {
	case 0:
		return fmt.Sprintf("Price drops in %d days", days)
	case 1:
		return fmt.Sprintf("15%% off • Next drop in %d days", days)
	case 2:
		return fmt.Sprintf("35%% off • Final drop in %d days", days)
	default:
		return fmt.Sprintf("70%% off • Donating in %d days", days)
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
