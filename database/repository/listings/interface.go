package listingRepo

import (
	"context"
	"errors"
	"time"

	"junkbutler/database"
	"junkbutler/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var ErrListingNotFound = errors.New("listing not found")

// ListingFilter narrows a listing query. Zero fields do not filter.
type ListingFilter struct {
	Statuses     []models.ListingStatus
	Category     string
	Search       string
	ListedBefore *time.Time
}

type ListingRepository interface {
	Create(ctx context.Context, l models.Listing) (string, error)
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	Find(ctx context.Context, f ListingFilter) ([]models.Listing, error)
	Update(ctx context.Context, l models.Listing) error
}

// MongoListingRepo implements ListingRepository using MongoDB.
type MongoListingRepo struct {
	coll *mongo.Collection
}

// NewMongoListingRepo returns a ListingRepository on the "listings" collection.
func NewMongoListingRepo() ListingRepository {
	repo := &MongoListingRepo{coll: database.Database().Collection("listings")}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("listings: index setup failed", zap.Error(err))
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
