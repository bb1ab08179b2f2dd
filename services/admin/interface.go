package admin

import (
	"context"
	"errors"
	"time"

	bookingRepo "mindnest/database/repository/bookings"
	profileRepo "mindnest/database/repository/profile"
	"mindnest/models"

	"go.uber.org/zap"
)

var ErrPolicyNotFound = errors.New("policy not found")

type AdminService interface {
	GetLegalSections() []models.LegalSection
	GetLegalSectionsFor(audience string) []models.LegalSection
	GetLegalSection(id string) (*models.LegalSection, error)
	Stats(ctx context.Context) (*models.DashboardStats, error)
	Profiles(ctx context.Context) ([]models.Profile, error)
}

// DefaultAdminService is the production implementation.
type DefaultAdminService struct {
	bookings bookingRepo.BookingRepository
	profiles profileRepo.ProfileRepository
	logger   *zap.Logger
	// policiesUpdated is the revision date shown on every policy page.
	policiesUpdated string
}

func NewAdminService(bookings bookingRepo.BookingRepository, profiles profileRepo.ProfileRepository, logger *zap.Logger) *DefaultAdminService {
	return &DefaultAdminService{
		bookings:        bookings,
		profiles:        profiles,
		logger:          logger,
		policiesUpdated: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
	}
}
