// Package session persists attempt state and cross-page prefill data in
// Redis, keyed by attempt and browser-session IDs. It is never authoritative
// for scoring: the scorer only ever sees the in-memory answer set.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"academy-api/internal/assessment/collector"
	"academy-api/internal/common/database"
	"academy-api/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

const (
	attemptKeyPrefix = "attempt:"
	prefillKeyPrefix = "prefill:"
	flagKeyPrefix    = "flag:"

	FlagAssessmentCompleted = "assessment_completed"
	FlagBookingCompleted    = "booking_completed"
)

// Prefill holds contact fields remembered across page navigations.
type Prefill struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Store is the Redis-backed session store.
type Store struct {
	redis      *database.RedisClient
	logger     logger.Logger
	attemptTTL time.Duration
	prefillTTL time.Duration
}

func NewStore(rdb *database.RedisClient, log logger.Logger, attemptTTL, prefillTTL time.Duration) *Store {
	return &Store{
		redis:      rdb,
		logger:     log.WithFields(map[string]interface{}{"component": "session-store"}),
		attemptTTL: attemptTTL,
		prefillTTL: prefillTTL,
	}
}

// SaveAttempt serializes the attempt under its ID, refreshing the TTL.
func (s *Store) SaveAttempt(ctx context.Context, attempt *collector.Attempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, attemptKeyPrefix+attempt.ID, data, s.attemptTTL)
}

// GetAttempt loads an attempt. A missing key returns (nil, nil); corrupted
// cached JSON is treated as absent data rather than failing the flow.
func (s *Store) GetAttempt(ctx context.Context, id string) (*collector.Attempt, error) {
	data, err := s.redis.Get(ctx, attemptKeyPrefix+id)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var attempt collector.Attempt
	if err := json.Unmarshal([]byte(data), &attempt); err != nil {
		s.logger.Warn("discarding malformed attempt state", map[string]interface{}{
			"attemptId": id,
			"error":     err.Error(),
		})
		_ = s.redis.Delete(ctx, attemptKeyPrefix+id)
		return nil, nil
	}
	return &attempt, nil
}

// DeleteAttempt discards a stored attempt.
func (s *Store) DeleteAttempt(ctx context.Context, id string) error {
	return s.redis.Delete(ctx, attemptKeyPrefix+id)
}

// SavePrefill remembers contact fields for a browser session.
func (s *Store) SavePrefill(ctx context.Context, sessionID string, prefill Prefill) error {
	data, err := json.Marshal(prefill)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, prefillKeyPrefix+sessionID, data, s.prefillTTL)
}

// GetPrefill returns the remembered contact fields, or the zero value when
// absent or unreadable.
func (s *Store) GetPrefill(ctx context.Context, sessionID string) (Prefill, error) {
	var prefill Prefill

	data, err := s.redis.Get(ctx, prefillKeyPrefix+sessionID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return prefill, nil
		}
		return prefill, err
	}

	if err := json.Unmarshal([]byte(data), &prefill); err != nil {
		s.logger.Warn("discarding malformed prefill data", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		return Prefill{}, nil
	}
	return prefill, nil
}

// SetFlag marks a session milestone such as assessment or booking completion.
func (s *Store) SetFlag(ctx context.Context, sessionID, name string) error {
	return s.redis.Set(ctx, flagKeyPrefix+sessionID+":"+name, "1", s.prefillTTL)
}

// HasFlag reports whether a session milestone is set.
func (s *Store) HasFlag(ctx context.Context, sessionID, name string) (bool, error) {
	_, err := s.redis.Get(ctx, flagKeyPrefix+sessionID+":"+name)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
