package service

import (
	"math/rand"

	"github.com/studyloop/studyloop-backend/internal/model"
)

// SampleQuestions draws up to n questions from the pool uniformly at random,
// without duplicates. When the pool holds fewer than n questions the whole
// pool is returned. The input slice is never mutated.
func SampleQuestions(pool []model.Question, n int) []model.Question {
	if n <= 0 || len(pool) == 0 {
		return nil
	}

	shuffled := make([]model.Question, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
