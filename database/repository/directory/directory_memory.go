package directoryRepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"mindnest/models"
)

// MemoryDirectoryRepo is an in-process directory with the same matching rules
// as the MongoDB query. It backs local development and tests.
type MemoryDirectoryRepo struct {
	mu      sync.RWMutex
	entries []models.Psychologist
}

func NewMemoryDirectoryRepo(entries ...models.Psychologist) *MemoryDirectoryRepo {
	repo := &MemoryDirectoryRepo{}
	repo.entries = append(repo.entries, entries...)
	return repo
}

func (r *MemoryDirectoryRepo) Search(_ context.Context, term string, filter models.DirectoryFilter) ([]models.Psychologist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term = strings.ToLower(strings.TrimSpace(term))
	results := []models.Psychologist{}
	for _, p := range r.entries {
		if term != "" && !matchesTerm(p, term) {
			continue
		}
		if len(filter.Specializations) > 0 && !hasAny(p.Specializations, filter.Specializations) {
			continue
		}
		if len(filter.PriceRange) > 0 && !inAnyBucket(p.Price, filter.PriceRange) {
			continue
		}
		results = append(results, p)
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

func (r *MemoryDirectoryRepo) GetByID(_ context.Context, id string) (*models.Psychologist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.entries {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func matchesTerm(p models.Psychologist, term string) bool {
	fields := append([]string{p.Name, p.Title, p.Bio}, p.Specializations...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// hasAny is exact, case-sensitive membership, mirroring $in.
func hasAny(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func inAnyBucket(price float64, buckets []models.PriceBucket) bool {
	for _, b := range buckets {
		if b.Contains(price) {
			return true
		}
	}
	return false
}
