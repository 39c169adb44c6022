package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/studyloop/studyloop-backend/internal/model"
)

type stubStore struct {
	attempts []model.Attempt
	err      error
}

func (s *stubStore) ListOverdue(_ context.Context, _ time.Duration) ([]model.Attempt, error) {
	return s.attempts, s.err
}

type stubSubmitter struct {
	submitted []uuid.UUID
	failOn    map[uuid.UUID]error
}

func (s *stubSubmitter) ForceSubmit(_ context.Context, attemptID uuid.UUID) error {
	if err, ok := s.failOn[attemptID]; ok {
		return err
	}
	s.submitted = append(s.submitted, attemptID)
	return nil
}

func TestSweepSubmitsOverdueAttempts(t *testing.T) {
	a1 := model.Attempt{ID: uuid.New()}
	a2 := model.Attempt{ID: uuid.New()}

	store := &stubStore{attempts: []model.Attempt{a1, a2}}
	submitter := &stubSubmitter{}
	w := NewExpiryWorker(store, submitter, time.Second, 5*time.Second, zerolog.Nop())

	w.sweep(context.Background())

	if len(submitter.submitted) != 2 {
		t.Fatalf("submitted %d attempts, want 2", len(submitter.submitted))
	}
	if submitter.submitted[0] != a1.ID || submitter.submitted[1] != a2.ID {
		t.Errorf("submitted wrong attempts: %v", submitter.submitted)
	}
}

func TestSweepContinuesPastFailures(t *testing.T) {
	bad := model.Attempt{ID: uuid.New()}
	good := model.Attempt{ID: uuid.New()}

	store := &stubStore{attempts: []model.Attempt{bad, good}}
	submitter := &stubSubmitter{failOn: map[uuid.UUID]error{bad.ID: errors.New("db down")}}
	w := NewExpiryWorker(store, submitter, time.Second, 5*time.Second, zerolog.Nop())

	w.sweep(context.Background())

	if len(submitter.submitted) != 1 || submitter.submitted[0] != good.ID {
		t.Errorf("submitted %v, want only the healthy attempt", submitter.submitted)
	}
}

func TestSweepToleratesListError(t *testing.T) {
	store := &stubStore{err: errors.New("db down")}
	submitter := &stubSubmitter{}
	w := NewExpiryWorker(store, submitter, time.Second, 5*time.Second, zerolog.Nop())

	w.sweep(context.Background())

	if len(submitter.submitted) != 0 {
		t.Errorf("submitted %v, want nothing on list failure", submitter.submitted)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	store := &stubStore{}
	submitter := &stubSubmitter{}
	w := NewExpiryWorker(store, submitter, 10*time.Millisecond, time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
