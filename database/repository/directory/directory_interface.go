package directoryRepo

import (
	"context"
	"errors"

	"mindnest/models"
)

var ErrNotFound = errors.New("psychologist not found")

// DirectoryRepository queries the psychologist directory.
type DirectoryRepository interface {
	// Search returns every entry matching term and filter. An empty term and
	// filter return the whole directory.
	Search(ctx context.Context, term string, filter models.DirectoryFilter) ([]models.Psychologist, error)
	// GetByID retrieves one directory entry.
	GetByID(ctx context.Context, id string) (*models.Psychologist, error)
}
