package admin

import (
	"context"
	"testing"

	bookingRepo "mindnest/database/repository/bookings"
	"mindnest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatsAggregatesPerCurrency(t *testing.T) {
	ctx := context.Background()
	repo := bookingRepo.NewMemoryBookingRepo()
	for _, b := range []models.Booking{
		{ID: "1", OrderID: "o1", Currency: "INR", Amount: 450, State: models.BookingScheduled},
		{ID: "2", OrderID: "o2", Currency: "INR", Amount: 800, State: models.BookingSchedulingFailed},
		{ID: "3", OrderID: "o3", Currency: "USD", Amount: 25, State: models.BookingScheduled},
	} {
		b := b
		require.NoError(t, repo.Create(ctx, &b))
	}

	svc := NewAdminService(repo, nil, zap.NewNop())
	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Bookings)
	assert.Equal(t, 1250.0, stats.Revenue["INR"])
	assert.Equal(t, 25.0, stats.Revenue["USD"])
	assert.Equal(t, 2, stats.ByState["scheduled"])
	assert.Equal(t, 1, stats.SchedulingFailed)
	assert.Len(t, stats.Buckets, 3)
}

func TestStatsEmpty(t *testing.T) {
	svc := NewAdminService(bookingRepo.NewMemoryBookingRepo(), nil, zap.NewNop())
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Bookings)
	assert.Empty(t, stats.Revenue)
}

func TestLegalSectionsByAudience(t *testing.T) {
	svc := NewAdminService(nil, nil, zap.NewNop())

	patient := svc.GetLegalSectionsFor(models.AudiencePatient)
	ids := []string{}
	for _, s := range patient {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []string{"terms", "privacy", "refunds"}, ids)
	assert.Len(t, svc.GetLegalSectionsFor(""), 4)

	section, err := svc.GetLegalSection("privacy")
	require.NoError(t, err)
	assert.Equal(t, "Privacy Policy", section.Title)

	_, err = svc.GetLegalSection("cookies")
	assert.ErrorIs(t, err, ErrPolicyNotFound)
}
