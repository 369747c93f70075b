package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/productmanager/manager_api/internal/models"
)

// TrashCleaner is satisfied by the supplier directory service.
type TrashCleaner interface {
	CleanTrash(ctx context.Context, code string) (*models.Response[int64], error)
}

// TrashPurgeWorker empties the supplier trash on a fixed interval.
type TrashPurgeWorker struct {
	cleaner  TrashCleaner
	interval time.Duration
}

// NewTrashPurgeWorker constructs a TrashPurgeWorker.
func NewTrashPurgeWorker(cleaner TrashCleaner, interval time.Duration) *TrashPurgeWorker {
	return &TrashPurgeWorker{cleaner: cleaner, interval: interval}
}

// Start begins the periodic purge loop until context is canceled.
func (w *TrashPurgeWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting trash purge worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Trash purge worker stopped")
			return
		}
	}
}

func (w *TrashPurgeWorker) run(ctx context.Context) {
	resp, err := w.cleaner.CleanTrash(ctx, "")
	if err != nil {
		log.Error().Err(err).Msg("Failed to purge supplier trash")
		return
	}
	if resp.Payload > 0 {
		log.Info().Int64("removed", resp.Payload).Msg("Supplier trash purged")
	}
}
