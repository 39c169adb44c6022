package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// LearnerSessionKey returns the cache key for a learner's login session (JTI).
func (r *CacheKeyStruct) LearnerSessionKey(learnerID string) string {
	return fmt.Sprintf("login:%s", learnerID)
}

// AttemptDeadlineKey returns the cache key for an attempt's submission deadline.
// The value is the Unix timestamp of the deadline, re-derivable from PostgreSQL.
func (r *CacheKeyStruct) AttemptDeadlineKey(attemptID string) string {
	return fmt.Sprintf("attempt:%s:deadline", attemptID)
}

var CacheKey = NewCacheKeyStruct()
