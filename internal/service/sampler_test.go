package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-backend/internal/model"
)

func makePool(size int) []model.Question {
	pool := make([]model.Question, size)
	for i := range pool {
		pool[i] = model.Question{ID: uuid.New()}
	}
	return pool
}

func TestSampleQuestionsSize(t *testing.T) {
	tests := []struct {
		name     string
		poolSize int
		n        int
		want     int
	}{
		{"fewer than pool", 10, 8, 8},
		{"exactly pool", 5, 5, 5},
		{"more than pool", 5, 20, 5},
		{"three of five", 5, 3, 3},
		{"zero requested", 5, 0, 0},
		{"empty pool", 0, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SampleQuestions(makePool(tt.poolSize), tt.n)
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSampleQuestionsNoDuplicates(t *testing.T) {
	pool := makePool(20)

	for trial := 0; trial < 50; trial++ {
		sample := SampleQuestions(pool, 8)
		seen := make(map[uuid.UUID]bool, len(sample))
		for _, q := range sample {
			if seen[q.ID] {
				t.Fatalf("trial %d: duplicate question %s", trial, q.ID)
			}
			seen[q.ID] = true
		}
	}
}

func TestSampleQuestionsDrawsFromPool(t *testing.T) {
	pool := makePool(10)
	members := make(map[uuid.UUID]bool, len(pool))
	for _, q := range pool {
		members[q.ID] = true
	}

	sample := SampleQuestions(pool, 6)
	for _, q := range sample {
		if !members[q.ID] {
			t.Errorf("sampled question %s is not in the pool", q.ID)
		}
	}
}

func TestSampleQuestionsLeavesPoolIntact(t *testing.T) {
	pool := makePool(10)
	original := make([]uuid.UUID, len(pool))
	for i, q := range pool {
		original[i] = q.ID
	}

	for trial := 0; trial < 20; trial++ {
		SampleQuestions(pool, 5)
	}

	for i, q := range pool {
		if q.ID != original[i] {
			t.Fatalf("pool mutated at index %d", i)
		}
	}
}

func TestSampleQuestionsVaries(t *testing.T) {
	pool := makePool(30)

	first := SampleQuestions(pool, 10)
	differs := false
	for trial := 0; trial < 20 && !differs; trial++ {
		next := SampleQuestions(pool, 10)
		for i := range next {
			if next[i].ID != first[i].ID {
				differs = true
				break
			}
		}
	}
	if !differs {
		t.Error("20 consecutive samples were identical")
	}
}
