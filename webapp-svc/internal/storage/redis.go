package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"beerchek/webapp-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

var ErrSessionContention = errors.New("session was modified concurrently too many times")

const maxUpdateAttempts = 5

type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: ttl}
}

func (s *RedisSessionStore) SessionKey(id string) string {
	return "webapp:session:" + id
}

// Load returns the zero state for unknown or expired sessions.
func (s *RedisSessionStore) Load(ctx context.Context, id string) (domain.UiState, error) {
	return decodeState(s.Client.Get(ctx, s.SessionKey(id)).Bytes())
}

func (s *RedisSessionStore) Save(ctx context.Context, id string, state domain.UiState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return s.Client.Set(ctx, s.SessionKey(id), payload, s.TTL).Err()
}

// Update applies fn inside a WATCH/MULTI transaction and retries when another
// request changed the session in between.
func (s *RedisSessionStore) Update(ctx context.Context, id string, fn func(domain.UiState) (domain.UiState, error)) (domain.UiState, error) {
	key := s.SessionKey(id)
	var next domain.UiState

	txf := func(tx *redis.Tx) error {
		current, err := decodeState(tx.Get(ctx, key).Bytes())
		if err != nil {
			return err
		}
		next, err = fn(current)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.TTL)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.Client.Watch(ctx, txf, key)
		if err == nil {
			return next, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return domain.UiState{}, err
	}
	return domain.UiState{}, ErrSessionContention
}

func decodeState(payload []byte, err error) (domain.UiState, error) {
	if errors.Is(err, redis.Nil) {
		return domain.UiState{}, nil
	}
	if err != nil {
		return domain.UiState{}, fmt.Errorf("failed to read session: %w", err)
	}
	var state domain.UiState
	if err := json.Unmarshal(payload, &state); err != nil {
		return domain.UiState{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return state, nil
}
