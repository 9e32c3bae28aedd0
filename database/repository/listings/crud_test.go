package listingRepo

import (
	"testing"
	"time"

	"junkbutler/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFilterQuery(t *testing.T) {
	assert.Equal(t, bson.M{}, filterQuery(ListingFilter{}))

	cutoff := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	q := filterQuery(ListingFilter{
		Statuses:     []models.ListingStatus{models.ListingListed},
		Category:     "furniture",
		Search:       "oak (table)",
		ListedBefore: &cutoff,
	})
	assert.Equal(t, models.ListingListed, q["status"])
	assert.Equal(t, "furniture", q["category"])
	assert.Equal(t, bson.M{"$lte": cutoff}, q["listedAt"])
	assert.Equal(t, bson.A{
		bson.M{"title": bson.M{"$regex": `oak \(table\)`, "$options": "i"}},
		bson.M{"description": bson.M{"$regex": `oak \(table\)`, "$options": "i"}},
	}, q["$or"])

	q = filterQuery(ListingFilter{Statuses: []models.ListingStatus{models.ListingPending, models.ListingListed}})
	assert.Equal(t, bson.M{"$in": []models.ListingStatus{models.ListingPending, models.ListingListed}}, q["status"])
}
