package marketplace

import (
	"context"
	"time"

	listingRepo "junkbutler/database/repository/listings"
	"junkbutler/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Query narrows a marketplace listing. Stage filters on the derived markdown stage.
type Query struct {
	Category string
	Statuses []models.ListingStatus
	Search   string
	Stage    *int
}

type ReclaimResult struct {
	Listing models.ListingView `json:"listing"`
	Fee     float64            `json:"fee"`
}

type SweepResult struct {
	Donated []string `json:"donated"`
}

// MarketplaceService runs the consignment resale queue.
type MarketplaceService interface {
	List(ctx context.Context, q Query) ([]models.ListingView, error)
	Get(ctx context.Context, id string) (*models.ListingView, error)
	Create(ctx context.Context, l models.Listing) (*models.ListingView, error)
	Approve(ctx context.Context, id string) (*models.ListingView, error)
	MarkSold(ctx context.Context, id string, price float64) (*models.ListingView, error)
	Reclaim(ctx context.Context, id string) (*ReclaimResult, error)
	ApplyMarkdowns(ctx context.Context, now time.Time) (*SweepResult, error)
}

// DefaultMarketplaceService implements MarketplaceService.
type DefaultMarketplaceService struct {
	Repo     listingRepo.ListingRepository
	Now      func() time.Time
	Logger   *zap.Logger
	validate *validator.Validate
}

func NewMarketplaceService(repo listingRepo.ListingRepository, logger *zap.Logger) *DefaultMarketplaceService {
	return &DefaultMarketplaceService{
		Repo:     repo,
		Now:      time.Now,
		Logger:   logger,
		validate: validator.New(),
	}
}
