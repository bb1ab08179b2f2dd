package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	directoryRepo "mindnest/database/repository/directory"
	"mindnest/models"

	"go.uber.org/zap"
)

var ErrInvalidFilter = errors.New("invalid directory filter")

// SearchParams is the raw search input from a request.
type SearchParams struct {
	Term            string
	Specializations []string
	PriceRange      []string
}

// Service answers directory searches with a single datastore query.
type Service struct {
	repo   directoryRepo.DirectoryRepository
	logger *zap.Logger
}

func NewService(repo directoryRepo.DirectoryRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Search returns psychologists matching params. Specializations are matched
// exactly as given; the caller's casing is not normalised.
func (s *Service) Search(ctx context.Context, params SearchParams) ([]models.Psychologist, error) {
	filter, err := buildFilter(params)
	if err != nil {
		return nil, err
	}

	results, err := s.repo.Search(ctx, params.Term, filter)
	if err != nil {
		s.logger.Error("Directory search failed",
			zap.String("term", params.Term),
			zap.Strings("specializations", filter.Specializations),
			zap.Error(err),
		)
		return nil, err
	}
	return results, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Psychologist, error) {
	return s.repo.GetByID(ctx, id)
}

func buildFilter(params SearchParams) (models.DirectoryFilter, error) {
	var filter models.DirectoryFilter

	seen := map[string]bool{}
	for _, raw := range splitValues(params.Specializations) {
		if !seen[raw] {
			seen[raw] = true
			filter.Specializations = append(filter.Specializations, raw)
		}
	}

	seenBucket := map[models.PriceBucket]bool{}
	for _, raw := range splitValues(params.PriceRange) {
		bucket, err := models.ParsePriceBucket(raw)
		if err != nil {
			return models.DirectoryFilter{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		if !seenBucket[bucket] {
			seenBucket[bucket] = true
			filter.PriceRange = append(filter.PriceRange, bucket)
		}
	}
	return filter, nil
}

// splitValues accepts both repeated and comma-separated query values.
func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
