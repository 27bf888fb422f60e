// Package redis persists the session collection under a single Redis key,
// implementing [minerva.Store].
//
// The layout mirrors the file store: one key holding the whole collection
// in the v1 JSON envelope. A missing key or corrupt payload loads as an
// empty collection.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/fwojciec/minerva"
	storejson "github.com/fwojciec/minerva/json"
)

const defaultKey = "minerva:sessions"

// Interface compliance check.
var _ minerva.Store = (*Store)(nil)

// Store is a Redis-backed [minerva.Store].
type Store struct {
	client *redis.Client
	key    string
	logger zerolog.Logger
}

// Option configures a [Store].
type Option func(*Store)

// WithKey sets the key the collection is stored under.
// Default is "minerva:sessions".
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// NewStore connects to Redis and returns a Store. The connection is
// verified with a ping so a misconfigured backend fails at startup, not on
// the first save.
func NewStore(ctx context.Context, opts *redis.Options, logger zerolog.Logger, options ...Option) (*Store, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	s := &Store{client: client, key: defaultKey, logger: logger}
	for _, o := range options {
		o(s)
	}
	return s, nil
}

// Load reads the session collection. A missing key yields an empty
// collection; a corrupt payload is logged and likewise yields an empty
// collection.
func (s *Store) Load(ctx context.Context) ([]minerva.ChatSession, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	sessions, err := storejson.UnmarshalSessions(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("corrupt session data, starting empty")
		return nil, nil
	}
	return sessions, nil
}

// Save replaces the stored collection.
func (s *Store) Save(ctx context.Context, sessions []minerva.ChatSession) error {
	data, err := storejson.MarshalSessions(sessions)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Clear deletes the collection key.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}
