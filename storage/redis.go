package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps slots as keys under a common prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
	log    *zap.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, addr, prefix string, log *zap.Logger) (*RedisStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	if prefix == "" {
		prefix = "ardenvale:save:"
	}
	return &RedisStore{client: client, prefix: prefix, log: log}, nil
}

// newRedisStoreWithClient is the test seam.
func newRedisStoreWithClient(client *redis.Client, prefix string, log *zap.Logger) *RedisStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisStore{client: client, prefix: prefix, log: log}
}

func (s *RedisStore) key(slot string) string {
	return s.prefix + slot
}

func (s *RedisStore) Put(ctx context.Context, slot string, data []byte) error {
	if err := s.client.Set(ctx, s.key(slot), data, 0).Err(); err != nil {
		return fmt.Errorf("write save %s: %w", slot, err)
	}
	s.log.Debug("save written", zap.String("slot", slot), zap.Int("bytes", len(data)))
	return nil
}

func (s *RedisStore) Get(ctx context.Context, slot string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read save %s: %w", slot, err)
	}
	return data, nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var slots []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		slots = append(slots, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	sort.Strings(slots)
	return slots, nil
}

func (s *RedisStore) Delete(ctx context.Context, slot string) error {
	if err := s.client.Del(ctx, s.key(slot)).Err(); err != nil {
		return fmt.Errorf("delete save %s: %w", slot, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
