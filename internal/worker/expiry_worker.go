package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/studyloop/studyloop-backend/internal/model"
)

// ExpiryStore lists overdue attempts for the sweeper.
type ExpiryStore interface {
	ListOverdue(ctx context.Context, grace time.Duration) ([]model.Attempt, error)
}

// ExpirySubmitter finalizes an attempt whose time ran out.
type ExpirySubmitter interface {
	ForceSubmit(ctx context.Context, attemptID uuid.UUID) error
}

// ExpiryWorker periodically force-submits attempts whose deadline passed
// while no client connection was alive to do it. It is the backstop behind
// the WebSocket countdown: a learner who closes the tab still gets graded.
type ExpiryWorker struct {
	store     ExpiryStore
	submitter ExpirySubmitter
	interval  time.Duration
	grace     time.Duration
	log       zerolog.Logger
}

// NewExpiryWorker creates a new ExpiryWorker.
func NewExpiryWorker(store ExpiryStore, submitter ExpirySubmitter, interval, grace time.Duration, log zerolog.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		store:     store,
		submitter: submitter,
		interval:  interval,
		grace:     grace,
		log:       log.With().Str("component", "expiry_worker").Logger(),
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.log.Info().
		Dur("interval", w.interval).
		Dur("grace", w.grace).
		Msg("Expiry worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Expiry worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep finds and finalizes overdue attempts. Attempts submitted between the
// query and the force-submit are skipped silently.
func (w *ExpiryWorker) sweep(ctx context.Context) {
	overdue, err := w.store.ListOverdue(ctx, w.grace)
	if err != nil {
		w.log.Error().Err(err).Msg("List overdue attempts failed")
		return
	}
	if len(overdue) == 0 {
		return
	}

	submitted := 0
	for _, attempt := range overdue {
		if err := w.submitter.ForceSubmit(ctx, attempt.ID); err != nil {
			w.log.Error().Err(err).
				Str("attempt_id", attempt.ID.String()).
				Msg("Force submit failed")
			continue
		}
		submitted++
	}

	w.log.Info().
		Int("found", len(overdue)).
		Int("submitted", submitted).
		Msg("Swept overdue attempts")
}
