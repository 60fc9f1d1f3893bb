package cleanup

import (
	"context"
	"log"
	"time"

	"ai-studio-server/modules/common/model"
)

// ExpiredImageStore - the rows whose retention window has passed
type ExpiredImageStore interface {
	FindExpiredImages(ctx context.Context, now time.Time) ([]model.GeneratedImage, error)
	ClearImageLocation(ctx context.Context, id string) error
}

// BlobDeleter - object removal; a missing object must come back as nil
type BlobDeleter interface {
	Delete(ctx context.Context, path string) error
}

type Sweeper struct {
	store ExpiredImageStore
	blobs BlobDeleter
}

func NewSweeper(store ExpiredImageStore, blobs BlobDeleter) *Sweeper {
	return &Sweeper{store: store, blobs: blobs}
}

// RunSweep - one pass over expired rows: delete the blob, then clear the
// row's image pointers. A row whose delete fails keeps its pointers so the
// next pass retries it; other rows are unaffected. Running twice back to back
// is a no-op because cleared rows no longer match the expired query.
func (s *Sweeper) RunSweep(ctx context.Context) (int, error) {
	rows, err := s.store.FindExpiredImages(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	if len(rows) == 0 {
		return 0, nil
	}

	log.Printf("🧹 Sweep: %d expired image(s)", len(rows))

	cleaned := 0
	for _, row := range rows {
		if row.ImagePath == nil || *row.ImagePath == "" {
			continue
		}

		if err := s.blobs.Delete(ctx, *row.ImagePath); err != nil {
			log.Printf("⚠️  Sweep: failed to delete %s: %v", *row.ImagePath, err)
			continue
		}

		if err := s.store.ClearImageLocation(ctx, row.ID); err != nil {
			log.Printf("⚠️  Sweep: failed to clear row %s: %v", row.ID, err)
			continue
		}

		cleaned++
	}

	log.Printf("🧹 Sweep done: %d/%d cleaned", cleaned, len(rows))
	return cleaned, nil
}

// Start - run the sweep on a fixed cadence until the context is cancelled
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Printf("🧹 Cleanup sweeper started (every %v)", interval)

		for {
			select {
			case <-ctx.Done():
				log.Println("🧹 Cleanup sweeper stopped")
				return
			case <-ticker.C:
				if _, err := s.RunSweep(ctx); err != nil {
					log.Printf("❌ Sweep failed: %v", err)
				}
			}
		}
	}()
}
