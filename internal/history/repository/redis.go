package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ASEODA/narashop-estimate/platform/apperr"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps history as a JSON list under one key. Append pushes and
// trims in a single MULTI block so concurrent writers cannot drop entries.
type RedisStore struct {
	client redis.UniversalClient
	key    string
	limit  int
}

func NewRedisStore(client redis.UniversalClient, key string, limit int) *RedisStore {
	if key == "" {
		key = "estimate_history"
	}
	return &RedisStore{client: client, key: key, limit: normalizeLimit(limit)}
}

func (s *RedisStore) Append(ctx context.Context, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode history entry: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, s.key, data)
		pipe.LTrim(ctx, s.key, 0, int64(s.limit-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

func (s *RedisStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	raw, err := s.client.LRange(ctx, s.key, 0, int64(normalizeLimit(limit)-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			// Entries written by older versions are skipped, not fatal.
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *RedisStore) Find(ctx context.Context, id uuid.UUID) (Entry, error) {
	entries, err := s.Recent(ctx, s.limit)
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, apperr.NotFound(msgEntryNotFound)
}
