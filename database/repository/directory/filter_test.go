package directoryRepo

import (
	"testing"

	"mindnest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildSearchFilterEmpty(t *testing.T) {
	assert.Equal(t, bson.M{}, BuildSearchFilter("  ", models.DirectoryFilter{}))
}

func TestBuildSearchFilterSingleClause(t *testing.T) {
	got := BuildSearchFilter("", models.DirectoryFilter{Specializations: []string{"Anxiety"}})
	assert.Equal(t, bson.M{"specializations": bson.M{"$in": []string{"Anxiety"}}}, got)
}

func TestBuildSearchFilterCombined(t *testing.T) {
	got := BuildSearchFilter("a.b", models.DirectoryFilter{
		Specializations: []string{"Anxiety"},
		PriceRange:      []models.PriceBucket{models.PriceUnder500, models.PriceAbove1000},
	})

	and, ok := got["$and"].(bson.A)
	require.True(t, ok)
	require.Len(t, and, 3)

	text := and[0].(bson.M)["$or"].(bson.A)
	require.Len(t, text, len(textFields))
	assert.Equal(t, bson.M{"name": primitive.Regex{Pattern: `a\.b`, Options: "i"}}, text[0])

	assert.Equal(t, bson.M{"specializations": bson.M{"$in": []string{"Anxiety"}}}, and[1])

	price := and[2].(bson.M)["$or"].(bson.A)
	assert.Equal(t, bson.A{
		bson.M{"price": bson.M{"$lt": 500.0}},
		bson.M{"price": bson.M{"$gt": 1000.0}},
	}, price)
}
