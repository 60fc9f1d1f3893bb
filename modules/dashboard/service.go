package dashboard

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"ai-studio-server/modules/common/model"
)

// StatsStore - the count queries behind the dashboard
type StatsStore interface {
	CountGeneratedImages(ctx context.Context, status string, since *time.Time) (int64, error)
	ListGenerationTimes(ctx context.Context) ([]int64, error)
	CountCatalogEntities(ctx context.Context, coll model.Collection) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
}

type Service struct {
	store StatsStore
}

func NewService(store StatsStore) *Service {
	return &Service{store: store}
}

// Stats - aggregate everything the admin dashboard shows. The independent
// count queries run concurrently; the first error wins.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	now := time.Now()
	since24h := now.Add(-24 * time.Hour)
	since7d := now.Add(-7 * 24 * time.Hour)
	since30d := now.Add(-30 * 24 * time.Hour)

	stats := &Stats{
		Catalog: make(map[string]int64, len(model.Collections())),
	}
	var times []int64

	var mu sync.Mutex
	var firstErr error
	var wg sync.WaitGroup

	run := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}

	count := func(dst *int64, status string, since *time.Time) {
		run(func() error {
			n, err := s.store.CountGeneratedImages(ctx, status, since)
			if err != nil {
				return err
			}
			mu.Lock()
			*dst = n
			mu.Unlock()
			return nil
		})
	}

	count(&stats.Generation.Total, "", nil)
	count(&stats.Generation.Success, model.GenerationStatusSuccess, nil)
	count(&stats.Generation.Failed, model.GenerationStatusFailed, nil)
	count(&stats.Generation.Last24h, "", &since24h)
	count(&stats.Generation.Last7d, "", &since7d)
	count(&stats.Generation.Last30d, "", &since30d)

	run(func() error {
		t, err := s.store.ListGenerationTimes(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		times = t
		mu.Unlock()
		return nil
	})

	run(func() error {
		n, err := s.store.CountUsers(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		stats.Users = n
		mu.Unlock()
		return nil
	})

	for _, coll := range model.Collections() {
		coll := coll
		run(func() error {
			n, err := s.store.CountCatalogEntities(ctx, coll)
			if err != nil {
				return err
			}
			mu.Lock()
			stats.Catalog[coll.Slug] = n
			mu.Unlock()
			return nil
		})
	}

	wg.Wait()
	if firstErr != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", firstErr)
	}

	if stats.Generation.Total > 0 {
		rate := float64(stats.Generation.Success) / float64(stats.Generation.Total) * 100
		stats.Generation.SuccessRate = math.Round(rate*100) / 100
	}

	if len(times) > 0 {
		var sum int64
		for _, t := range times {
			sum += t
		}
		stats.Generation.AvgGenerationMs = sum / int64(len(times))
	}

	return stats, nil
}
