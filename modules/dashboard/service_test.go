package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-studio-server/modules/common/model"
)

type fakeStats struct {
	total, success, failed int64
	windowed               map[time.Duration]int64 // keyed by rough window size
	times                  []int64
	catalog                map[string]int64
	users                  int64
	err                    error
}

func (f *fakeStats) CountGeneratedImages(ctx context.Context, status string, since *time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if since != nil {
		window := time.Since(*since).Round(time.Hour)
		return f.windowed[window], nil
	}
	switch status {
	case model.GenerationStatusSuccess:
		return f.success, nil
	case model.GenerationStatusFailed:
		return f.failed, nil
	default:
		return f.total, nil
	}
}

func (f *fakeStats) ListGenerationTimes(ctx context.Context) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.times, nil
}

func (f *fakeStats) CountCatalogEntities(ctx context.Context, coll model.Collection) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.catalog[coll.Slug], nil
}

func (f *fakeStats) CountUsers(ctx context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.users, nil
}

func TestStats(t *testing.T) {
	store := &fakeStats{
		total:   10,
		success: 7,
		failed:  3,
		windowed: map[time.Duration]int64{
			24 * time.Hour:      2,
			7 * 24 * time.Hour:  5,
			30 * 24 * time.Hour: 9,
		},
		times:   []int64{1000, 2000, 3000},
		catalog: map[string]int64{"industries": 4, "ai-faces": 2},
		users:   42,
	}

	stats, err := NewService(store).Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	g := stats.Generation
	if g.Total != 10 || g.Success != 7 || g.Failed != 3 {
		t.Errorf("totals = %+v", g)
	}
	if g.SuccessRate != 70.0 {
		t.Errorf("successRate = %v, want 70", g.SuccessRate)
	}
	if g.AvgGenerationMs != 2000 {
		t.Errorf("avgGenerationMs = %d, want 2000", g.AvgGenerationMs)
	}
	if g.Last24h != 2 || g.Last7d != 5 || g.Last30d != 9 {
		t.Errorf("windows = %d/%d/%d", g.Last24h, g.Last7d, g.Last30d)
	}

	if stats.Catalog["industries"] != 4 || stats.Catalog["ai-faces"] != 2 {
		t.Errorf("catalog = %v", stats.Catalog)
	}
	if len(stats.Catalog) != len(model.Collections()) {
		t.Errorf("catalog has %d entries, want one per collection", len(stats.Catalog))
	}
	if stats.Users != 42 {
		t.Errorf("users = %d", stats.Users)
	}
}

func TestStatsEmpty(t *testing.T) {
	stats, err := NewService(&fakeStats{catalog: map[string]int64{}}).Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Generation.SuccessRate != 0 || stats.Generation.AvgGenerationMs != 0 {
		t.Errorf("empty stats should not divide by zero: %+v", stats.Generation)
	}
}

func TestStatsPropagatesError(t *testing.T) {
	_, err := NewService(&fakeStats{err: errors.New("db down")}).Stats(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
}
