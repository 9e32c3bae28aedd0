package models

import "time"

type ListingStatus string

const (
	ListingPending   ListingStatus = "pending"
	ListingListed    ListingStatus = "listed"
	ListingSold      ListingStatus = "sold"
	ListingDonated   ListingStatus = "donated"
	ListingReclaimed ListingStatus = "reclaimed"
)

// Listing is a consigned item collected on a pickup and offered for resale.
type Listing struct {
	ID              string        `json:"id" bson:"id"`
	Title           string        `json:"title" bson:"title" validate:"required,max=120"`
	Description     string        `json:"description" bson:"description"`
	Category        string        `json:"category" bson:"category" validate:"required"`
	Condition       string        `json:"condition" bson:"condition" validate:"required"`
	Dimensions      string        `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	ImageURLs       []string      `json:"imageUrls,omitempty" bson:"imageUrls,omitempty"`
	OriginalPrice   float64       `json:"originalPrice" bson:"originalPrice" validate:"gt=0"`
	Status          ListingStatus `json:"status" bson:"status"`
	BookingID       string        `json:"bookingId,omitempty" bson:"bookingId,omitempty"`
	ConsignorName   string        `json:"consignorName" bson:"consignorName" validate:"required"`
	ConsignorEmail  string        `json:"consignorEmail" bson:"consignorEmail" validate:"omitempty,email"`
	SubmittedAt     time.Time     `json:"submittedAt" bson:"submittedAt"`
	ListedAt        *time.Time    `json:"listedAt,omitempty" bson:"listedAt,omitempty"`
	ClosedAt        *time.Time    `json:"closedAt,omitempty" bson:"closedAt,omitempty"`
	SoldPrice       float64       `json:"soldPrice,omitempty" bson:"soldPrice,omitempty"`
	ConsignorPayout float64       `json:"consignorPayout,omitempty" bson:"consignorPayout,omitempty"`
	ReclaimFee      float64       `json:"reclaimFee,omitempty" bson:"reclaimFee,omitempty"`
}

// ListingView adds the markdown state derived at read time.
type ListingView struct {
	Listing
	CurrentPrice          float64    `json:"currentPrice"`
	MarkdownStage         int        `json:"markdownStage"`
	MarkdownPercent       int        `json:"markdownPercent"`
	NextMarkdownPercent   int        `json:"nextMarkdownPercent"`
	MarkdownNote          string     `json:"markdownNote"`
	DaysListed            int        `json:"daysListed"`
	DaysUntilNextMarkdown int        `json:"daysUntilNextMarkdown"`
	NextMarkdownAt        *time.Time `json:"nextMarkdownAt,omitempty"`
	ReclaimFeeQuote       float64    `json:"reclaimFeeQuote"`
}
