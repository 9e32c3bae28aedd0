package listingRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"junkbutler/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a listing and returns its ID.
func (r *MongoListingRepo) Create(ctx context.Context, l models.Listing) (string, error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.SubmittedAt.IsZero() {
		l.SubmittedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, l); err != nil {
		return "", err
	}
	return l.ID, nil
}

func (r *MongoListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	var l models.Listing
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrListingNotFound, id)
		}
		return nil, err
	}
	return &l, nil
}

// Find returns the listings matching f, newest listing first.
func (r *MongoListingRepo) Find(ctx context.Context, f ListingFilter) ([]models.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "listedAt", Value: -1}, {Key: "submittedAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filterQuery(f), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	listings := []models.Listing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// Update replaces the stored listing with l.
func (r *MongoListingRepo) Update(ctx context.Context, l models.Listing) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": l.ID}, l)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", ErrListingNotFound, l.ID)
	}
	return nil
}

func filterQuery(f ListingFilter) bson.M {
	q := bson.M{}
	if len(f.Statuses) == 1 {
		q["status"] = f.Statuses[0]
	} else if len(f.Statuses) > 1 {
		q["status"] = bson.M{"$in": f.Statuses}
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := containsPattern(s)
		q["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	if f.ListedBefore != nil {
		q["listedAt"] = bson.M{"$lte": *f.ListedBefore}
	}
	return q
}

func containsPattern(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}
