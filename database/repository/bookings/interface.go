package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"junkbutler/database"
	"junkbutler/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingRepository interface {
	Create(ctx context.Context, b models.Booking) (string, error)
	GetByBookingID(ctx context.Context, bookingID string) (*models.Booking, error)
	ListUpcoming(ctx context.Context, fromDate string) ([]models.Booking, error)
	MarkConfirmed(ctx context.Context, bookingID string, at time.Time) error
}

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a BookingRepository on the "bookings" collection.
func NewMongoBookingRepo() BookingRepository {
	repo := &MongoBookingRepo{coll: database.Database().Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("bookings: index setup failed", zap.Error(err))
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func wrapNotFound(err error, bookingID string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}
	return err
}
