package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"

	listingRepo "junkbutler/database/repository/listings"
	"junkbutler/models"

	"go.uber.org/zap"
)

func (s *DefaultMarketplaceService) List(ctx context.Context, q Query) ([]models.ListingView, error) {
	listings, err := s.Repo.Find(ctx, listingRepo.ListingFilter{
		Statuses: q.Statuses,
		Category: q.Category,
		Search:   q.Search,
	})
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}

	now := s.Now()
	views := make([]models.ListingView, 0, len(listings))
	for _, l := range listings {
		v := Derive(l, now)
		if q.Stage != nil && (v.Status != models.ListingListed || v.MarkdownStage != *q.Stage) {
			continue
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *DefaultMarketplaceService) Get(ctx context.Context, id string) (*models.ListingView, error) {
	l, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	v := Derive(*l, s.Now())
	return &v, nil
}

// Create stores a consigned item as pending review.
func (s *DefaultMarketplaceService) Create(ctx context.Context, l models.Listing) (*models.ListingView, error) {
	if err := s.validate.Struct(l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidListing, err)
	}
	l.ID = ""
	l.Status = models.ListingPending
	l.SubmittedAt = s.Now().UTC()
	l.ListedAt, l.ClosedAt = nil, nil
	l.SoldPrice, l.ConsignorPayout, l.ReclaimFee = 0, 0, 0

	id, err := s.Repo.Create(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	l.ID = id
	s.Logger.Info("marketplace: listing submitted", zap.String("listing", id), zap.String("title", l.Title))
	v := Derive(l, s.Now())
	return &v, nil
}

// Approve publishes a pending listing; the markdown clock starts now.
func (s *DefaultMarketplaceService) Approve(ctx context.Context, id string) (*models.ListingView, error) {
	return s.transition(ctx, id, models.ListingPending, models.ListingListed, func(l *models.Listing, now time.Time) {
		l.ListedAt = &now
	})
}

// MarkSold closes a listed item at price and records the consignor's share.
func (s *DefaultMarketplaceService) MarkSold(ctx context.Context, id string, price float64) (*models.ListingView, error) {
	if price <= 0 {
		return nil, fmt.Errorf("%w: sale price must be positive", ErrInvalidListing)
	}
	return s.transition(ctx, id, models.ListingListed, models.ListingSold, func(l *models.Listing, now time.Time) {
		l.ClosedAt = &now
		l.SoldPrice = roundCents(price)
		l.ConsignorPayout = roundCents(price * ConsignorShare)
	})
}

// Reclaim returns a listed item to its consignor for a fee on the current price.
func (s *DefaultMarketplaceService) Reclaim(ctx context.Context, id string) (*ReclaimResult, error) {
	var fee float64
	v, err := s.transition(ctx, id, models.ListingListed, models.ListingReclaimed, func(l *models.Listing, now time.Time) {
		fee = Derive(*l, now).ReclaimFeeQuote
		l.ClosedAt = &now
		l.ReclaimFee = fee
	})
	if err != nil {
		return nil, err
	}
	return &ReclaimResult{Listing: *v, Fee: fee}, nil
}

// ApplyMarkdowns donates every listing that has been listed for DonateAfterDays.
// Markdown prices are derived at read time, so donation is the only stored change.
func (s *DefaultMarketplaceService) ApplyMarkdowns(ctx context.Context, now time.Time) (*SweepResult, error) {
	cutoff := now.Add(-DonateAfterDays * day)
	expired, err := s.Repo.Find(ctx, listingRepo.ListingFilter{
		Statuses:     []models.ListingStatus{models.ListingListed},
		ListedBefore: &cutoff,
	})
	if err != nil {
		return nil, fmt.Errorf("find expired listings: %w", err)
	}

	res := &SweepResult{Donated: []string{}}
	var errs []error
	for _, l := range expired {
		closed := now
		l.Status = models.ListingDonated
		l.ClosedAt = &closed
		if err := s.Repo.Update(ctx, l); err != nil {
			errs = append(errs, fmt.Errorf("donate %s: %w", l.ID, err))
			continue
		}
		listingTransitions.WithLabelValues(string(models.ListingDonated)).Inc()
		res.Donated = append(res.Donated, l.ID)
	}
	s.Logger.Info("marketplace: markdown sweep finished",
		zap.Int("donated", len(res.Donated)), zap.Int("failed", len(errs)))
	return res, errors.Join(errs...)
}

func (s *DefaultMarketplaceService) transition(ctx context.Context, id string, from, to models.ListingStatus, apply func(*models.Listing, time.Time)) (*models.ListingView, error) {
	l, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status != from {
		return nil, fmt.Errorf("%w: %s is %s", ErrInvalidTransition, id, l.Status)
	}

	now := s.Now().UTC()
	apply(l, now)
	l.Status = to
	if err := s.Repo.Update(ctx, *l); err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}
	listingTransitions.WithLabelValues(string(to)).Inc()
	s.Logger.Info("marketplace: listing moved", zap.String("listing", id),
		zap.String("from", string(from)), zap.String("to", string(to)))

	v := Derive(*l, now)
	return &v, nil
}

func (s *DefaultMarketplaceService) load(ctx context.Context, id string) (*models.Listing, error) {
	l, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, listingRepo.ErrListingNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return l, err
}
