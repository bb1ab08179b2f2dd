package directory

import (
	"context"
	"testing"

	directoryRepo "mindnest/database/repository/directory"
	"mindnest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService() *Service {
	return NewService(directoryRepo.NewMemoryDirectoryRepo(directoryRepo.SeedPsychologists()...), zap.NewNop())
}

func TestSearchAnxietyUnder500(t *testing.T) {
	got, err := newService().Search(context.Background(), SearchParams{
		Specializations: []string{"Anxiety"},
		PriceRange:      []string{"under_500"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.Contains(t, p.Specializations, "Anxiety")
		assert.Less(t, p.Price, models.PriceLowThreshold)
	}
}

func TestSearchEmptyReturnsAll(t *testing.T) {
	got, err := newService().Search(context.Background(), SearchParams{})
	require.NoError(t, err)
	assert.Len(t, got, len(directoryRepo.SeedPsychologists()))
}

func TestSearchCommaSeparatedValues(t *testing.T) {
	got, err := newService().Search(context.Background(), SearchParams{
		PriceRange: []string{"under_500,above_1000", "under_500"},
	})
	require.NoError(t, err)
	for _, p := range got {
		assert.True(t, p.Price < 500 || p.Price > 1000, p.ID)
	}
	assert.Len(t, got, 3)
}

func TestSearchRejectsUnknownBucket(t *testing.T) {
	_, err := newService().Search(context.Background(), SearchParams{PriceRange: []string{"free"}})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}
