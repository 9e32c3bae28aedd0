package estimate

import (
	"context"
	"time"

	"junkbutler/models"
	"junkbutler/services/normalizer"

	"go.uber.org/zap"
)

// CompletionFunc receives each completed estimate exactly once.
type CompletionFunc func(ctx context.Context, est models.CompletedEstimate) error

const (
	SourceGuided         = "guided"
	SourceConversational = "conversational"
)

// Placeholders written by the guided flow for fields it never asks about.
const (
	PlaceholderLocation = "Not specified"
	PlaceholderAccess   = "No special access notes"
	PlaceholderPickup   = "To be scheduled"
	PlaceholderContact  = "Not provided"
)

func IsPlaceholder(v string) bool {
	switch v {
	case PlaceholderLocation, PlaceholderAccess, PlaceholderPickup, PlaceholderContact:
		return true
	}
	return false
}

// Candidate is a session one of the two engines believes is finished.
type Candidate struct {
	Source  string
	Session models.EstimateSession
}

type Bridge struct {
	onComplete  CompletionFunc
	guidedPrice float64
	region      string
	loc         *time.Location
	now         func() time.Time
	logger      *zap.Logger
}

type BridgeOption func(*Bridge)

func WithGuidedPrice(price float64) BridgeOption {
	return func(b *Bridge) { b.guidedPrice = price }
}

func WithLocation(loc *time.Location) BridgeOption {
	return func(b *Bridge) {
		if loc != nil {
			b.loc = loc
		}
	}
}

func WithClock(now func() time.Time) BridgeOption {
	return func(b *Bridge) { b.now = now }
}

func WithRegion(region string) BridgeOption {
	return func(b *Bridge) { b.region = region }
}

func NewBridge(onComplete CompletionFunc, logger *zap.Logger, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		onComplete:  onComplete,
		guidedPrice: 75,
		region:      normalizer.DefaultRegion,
		loc:         time.Local,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Complete turns a finished candidate into the dialogue's immutable result.
// An incomplete candidate yields (nil, nil). A dialogue completes at most once.
func (b *Bridge) Complete(ctx context.Context, d *Dialogue, c Candidate) (*models.CompletedEstimate, error) {
	s := c.Session.Clone()
	if c.Source == SourceGuided {
		b.applyGuidedDefaults(&s)
	}
	if !s.IsComplete() {
		return nil, nil
	}
	if d.Completed {
		return nil, ErrAlreadyCompleted
	}

	est := b.snapshot(d.ID, c.Source, s)
	d.Session = s
	d.Completed = true
	d.Result = &est
	completionsTotal.WithLabelValues(c.Source).Inc()

	if b.onComplete != nil {
		if err := b.onComplete(ctx, est); err != nil {
			b.logger.Error("estimate: completion callback failed",
				zap.String("session", d.ID), zap.String("source", c.Source), zap.Error(err))
		}
	}
	b.logger.Info("estimate: completed", zap.String("session", d.ID), zap.String("source", c.Source),
		zap.Strings("items", est.Items), zap.Float64("price", est.Price))
	return &est, nil
}

func (b *Bridge) applyGuidedDefaults(s *models.EstimateSession) {
	s.Price = b.guidedPrice
	if s.Location == "" {
		s.Location = PlaceholderLocation
	}
	if s.AccessNotes == "" {
		s.AccessNotes = PlaceholderAccess
	}
	if s.PickupTime == "" {
		s.PickupTime = PlaceholderPickup
	}
	if s.ContactInfo.Name == "" {
		s.ContactInfo.Name = PlaceholderContact
	}
	if s.ContactInfo.Phone == "" {
		s.ContactInfo.Phone = PlaceholderContact
	}
	if s.ContactInfo.Email == "" {
		s.ContactInfo.Email = PlaceholderContact
	}
}

func (b *Bridge) snapshot(id, source string, s models.EstimateSession) models.CompletedEstimate {
	est := models.CompletedEstimate{
		SessionID:   id,
		Source:      source,
		Quantity:    s.Quantity,
		Items:       s.Items,
		Photos:      s.Photos,
		Resale:      s.Resale,
		Price:       s.Price,
		Location:    s.Location,
		AccessNotes: s.AccessNotes,
		PickupTime:  s.PickupTime,
		ContactInfo: s.ContactInfo,
		CompletedAt: b.now().UTC(),
	}
	if est.Items == nil {
		est.Items = []string{}
	}
	if est.Photos == nil {
		est.Photos = []string{}
	}

	if !IsPlaceholder(s.Location) {
		est.Address = normalizer.DecomposeAddress(s.Location)
	}
	if !IsPlaceholder(s.PickupTime) {
		if slot, _, ok := normalizer.ExtractTimeSlot(s.PickupTime); ok {
			est.PickupTimeSlot = string(slot)
		}
		if day, ok := normalizer.ExtractDate(s.PickupTime, b.now().In(b.loc)); ok {
			est.PickupDate = normalizer.FormatDate(day)
		}
	}
	if !IsPlaceholder(s.ContactInfo.Phone) {
		est.ContactInfo.Phone = normalizer.NormalizePhone(s.ContactInfo.Phone, b.region)
	}
	return est
}
