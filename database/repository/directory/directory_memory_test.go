package directoryRepo

import (
	"context"
	"testing"

	"mindnest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(ps []models.Psychologist) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestMemorySearchEmptyFilterReturnsAll(t *testing.T) {
	repo := NewMemoryDirectoryRepo(SeedPsychologists()...)
	got, err := repo.Search(context.Background(), "", models.DirectoryFilter{})
	require.NoError(t, err)
	assert.Len(t, got, len(SeedPsychologists()))
}

func TestMemorySearchSpecializationAndPrice(t *testing.T) {
	repo := NewMemoryDirectoryRepo(SeedPsychologists()...)
	got, err := repo.Search(context.Background(), "", models.DirectoryFilter{
		Specializations: []string{"Anxiety"},
		PriceRange:      []models.PriceBucket{models.PriceUnder500},
	})
	require.NoError(t, err)

	// psy-rohan is under 500 but stores "anxiety" in lower case.
	assert.Equal(t, []string{"psy-ananya"}, ids(got))
	for _, p := range got {
		assert.Contains(t, p.Specializations, "Anxiety")
		assert.Less(t, p.Price, 500.0)
	}
}

func TestMemorySearchTermIsCaseInsensitive(t *testing.T) {
	repo := NewMemoryDirectoryRepo(SeedPsychologists()...)
	got, err := repo.Search(context.Background(), "TRAUMA", models.DirectoryFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"psy-meera"}, ids(got))
}

func TestMemoryGetByID(t *testing.T) {
	repo := NewMemoryDirectoryRepo(SeedPsychologists()...)
	p, err := repo.GetByID(context.Background(), "psy-kabir")
	require.NoError(t, err)
	assert.Equal(t, "Kabir Mehta", p.Name)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
