package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Payphone-Digital/leadgen/internal/constants"
	"github.com/Payphone-Digital/leadgen/internal/dto"
	"github.com/Payphone-Digital/leadgen/pkg/cache"
	"github.com/Payphone-Digital/leadgen/pkg/redis"
)

// ContextStore keeps the per-user conversation slots. Update is an atomic
// read-modify-write and refreshes the entry TTL.
type ContextStore interface {
	Get(ctx context.Context, key string) (dto.ChatContext, error)
	Update(ctx context.Context, key string, fn func(*dto.ChatContext)) (dto.ChatContext, error)
}

// RedisContextStore shares conversation state across instances
type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) key(userKey string) string {
	return constants.CacheKeyChatContext + userKey
}

func (s *RedisContextStore) Get(ctx context.Context, key string) (dto.ChatContext, error) {
	var chatCtx dto.ChatContext
	if _, err := s.client.GetJSON(ctx, s.key(key), &chatCtx); err != nil {
		return dto.ChatContext{}, err
	}
	return chatCtx, nil
}

func (s *RedisContextStore) Update(ctx context.Context, key string, fn func(*dto.ChatContext)) (dto.ChatContext, error) {
	var result dto.ChatContext
	err := s.client.UpdateJSON(ctx, s.key(key), s.ttl, func(current []byte) (interface{}, error) {
		next := dto.ChatContext{}
		if current != nil {
			if err := json.Unmarshal(current, &next); err != nil {
				// a corrupt entry is replaced rather than blocking the user
				next = dto.ChatContext{}
			}
		}
		fn(&next)
		result = next
		return next, nil
	})
	if err != nil {
		return dto.ChatContext{}, err
	}
	return result, nil
}

// MemoryContextStore is the single-instance fallback used when Redis is disabled
type MemoryContextStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewMemoryContextStore(c *cache.Cache, ttl time.Duration) *MemoryContextStore {
	return &MemoryContextStore{cache: c, ttl: ttl}
}

func (s *MemoryContextStore) Get(_ context.Context, key string) (dto.ChatContext, error) {
	if v, ok := s.cache.Get(constants.CacheKeyChatContext + key); ok {
		return v.(dto.ChatContext), nil
	}
	return dto.ChatContext{}, nil
}

func (s *MemoryContextStore) Update(_ context.Context, key string, fn func(*dto.ChatContext)) (dto.ChatContext, error) {
	next := s.cache.Update(constants.CacheKeyChatContext+key, s.ttl, func(current interface{}, found bool) interface{} {
		chatCtx := dto.ChatContext{}
		if found {
			chatCtx = current.(dto.ChatContext)
		}
		fn(&chatCtx)
		return chatCtx
	})
	return next.(dto.ChatContext), nil
}
