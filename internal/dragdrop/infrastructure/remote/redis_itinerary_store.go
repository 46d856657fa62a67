package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// DefaultSyncTTL bounds how long mirrored operations are retained.
const DefaultSyncTTL = 30 * 24 * time.Hour

// RedisItineraryStore mirrors committed operations to Redis so other
// devices can observe recent itinerary changes. All calls go through a
// circuit breaker; once the remote is flapping the breaker opens and
// calls fail fast as offline instead of hanging every drop.
type RedisItineraryStore struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
	ttl     time.Duration
}

// NewRedisItineraryStore creates a store over the given client.
func NewRedisItineraryStore(client *redis.Client) *RedisItineraryStore {
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "redis-itinerary",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &RedisItineraryStore{
		client:  client,
		breaker: breaker,
		ttl:     DefaultSyncTTL,
	}
}

// SyncOperation mirrors a committed operation under the user's sync key.
func (s *RedisItineraryStore) SyncOperation(ctx context.Context, userID uuid.UUID, op *domain.Operation) error {
	payload, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("failed to marshal operation: %w", err)
	}

	_, err = s.breaker.Execute(func() (struct{}, error) {
		key := s.operationsKey(userID)
		pipe := s.client.TxPipeline()
		pipe.HSet(ctx, key, op.ID.String(), payload)
		pipe.Expire(ctx, key, s.ttl)
		pipe.Set(ctx, s.lastSyncKey(userID), time.Now().UTC().Format(time.RFC3339Nano), s.ttl)
		_, execErr := pipe.Exec(ctx)
		return struct{}{}, execErr
	})
	return s.mapError(err)
}

// RecentOperations returns the mirrored operations for a user.
func (s *RedisItineraryStore) RecentOperations(ctx context.Context, userID uuid.UUID) ([]*domain.Operation, error) {
	raw, err := s.client.HGetAll(ctx, s.operationsKey(userID)).Result()
	if err != nil {
		return nil, s.mapError(err)
	}

	ops := make([]*domain.Operation, 0, len(raw))
	for _, payload := range raw {
		var op domain.Operation
		if err := json.Unmarshal([]byte(payload), &op); err != nil {
			continue
		}
		ops = append(ops, &op)
	}
	return ops, nil
}

// LastSyncedAt returns when the user's itinerary was last mirrored,
// zero time when never.
func (s *RedisItineraryStore) LastSyncedAt(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	raw, err := s.client.Get(ctx, s.lastSyncKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, s.mapError(err)
	}
	return time.Parse(time.RFC3339Nano, raw)
}

// Ping checks remote connectivity.
func (s *RedisItineraryStore) Ping(ctx context.Context) error {
	return s.mapError(s.client.Ping(ctx).Err())
}

func (s *RedisItineraryStore) operationsKey(userID uuid.UUID) string {
	return fmt.Sprintf("wayfarer:itinerary:%s:ops", userID)
}

func (s *RedisItineraryStore) lastSyncKey(userID uuid.UUID) string {
	return fmt.Sprintf("wayfarer:itinerary:%s:last_sync", userID)
}

// mapError folds breaker and connection failures into the offline
// sentinel so callers classify them uniformly.
func (s *RedisItineraryStore) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: circuit breaker open", domain.ErrRemoteUnavailable)
	}
	return err
}
