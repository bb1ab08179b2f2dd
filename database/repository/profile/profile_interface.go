package profileRepo

import (
	"context"
	"errors"

	"mindnest/models"
)

var (
	// ErrNotFound is returned when no profile matches.
	ErrNotFound   = errors.New("profile not found")
	ErrEmailInUse = errors.New("email already registered")
)

// ProfileRepository defines methods for profile data access.
type ProfileRepository interface {
	// GetByID retrieves a profile by identity-provider user id.
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	// GetByEmail retrieves a profile by email address, including the password hash.
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	// GetRole fetches only the role of a profile.
	GetRole(ctx context.Context, id string) (models.Role, error)
	// GetAll lists every profile.
	GetAll(ctx context.Context) ([]models.Profile, error)
	// Create inserts a new profile.
	Create(ctx context.Context, profile *models.Profile) error
}
