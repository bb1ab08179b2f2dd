package admin

import (
	"context"
	"fmt"

	"mindnest/models"

	"go.uber.org/zap"
)

// Stats summarises paid bookings. Totals are aggregated by the datastore.
func (a *DefaultAdminService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	buckets, err := a.bookings.RevenueByState(ctx)
	if err != nil {
		a.logger.Error("Failed to aggregate revenue", zap.Error(err))
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}

	stats := &models.DashboardStats{
		Revenue: map[string]float64{},
		ByState: map[string]int{},
		Buckets: buckets,
	}
	for _, b := range buckets {
		stats.Revenue[b.Currency] += b.Total
		stats.ByState[b.State] += b.Count
		stats.Bookings += b.Count
		if b.State == string(models.BookingSchedulingFailed) {
			stats.SchedulingFailed += b.Count
		}
	}
	return stats, nil
}

func (a *DefaultAdminService) Profiles(ctx context.Context) ([]models.Profile, error) {
	profiles, err := a.profiles.GetAll(ctx)
	if err != nil {
		a.logger.Error("Failed to list profiles", zap.Error(err))
		return nil, err
	}
	return profiles, nil
}

var _ AdminService = (*DefaultAdminService)(nil)
