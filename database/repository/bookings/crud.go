package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"junkbutler/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a submitted booking and returns its internal ID.
func (r *MongoBookingRepo) Create(ctx context.Context, b models.Booking) (string, error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		return "", err
	}
	return b.ID, nil
}

func (r *MongoBookingRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Booking, error) {
	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&b); err != nil {
		return nil, wrapNotFound(err, bookingID)
	}
	return &b, nil
}

// ListUpcoming returns bookings scheduled on or after fromDate (YYYY-MM-DD),
// earliest first.
func (r *MongoBookingRepo) ListUpcoming(ctx context.Context, fromDate string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "record.date", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"record.date": bson.M{"$gte": fromDate}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *MongoBookingRepo) MarkConfirmed(ctx context.Context, bookingID string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"bookingId": bookingID},
		bson.M{"$set": bson.M{"status": models.BookingStatusConfirmed, "confirmedAt": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}
	return nil
}
