package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Payphone-Digital/leadgen/config"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrConflict is returned when an optimistic update kept losing to concurrent writers
var ErrConflict = errors.New("redis: too many concurrent updates")

const maxUpdateAttempts = 10

type Client struct {
	rdb *redis.Client
}

func NewClient(cfg *config.Config) (*Client, error) {
	client := NewFromOptions(&redis.Options{
		Addr:         cfg.RedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolTimeout:  cfg.Redis.PoolTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		logger.GetLogger().Error("Failed to connect to Redis",
			zap.String("address", cfg.RedisAddress()),
			zap.Error(err),
		)
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.GetLogger().Info("Successfully connected to Redis",
		zap.String("address", cfg.RedisAddress()),
		zap.Int("database", cfg.Redis.Database),
	)

	return client, nil
}

// NewFromOptions wraps a client without probing the server
func NewFromOptions(opts *redis.Options) *Client {
	return &Client{rdb: redis.NewClient(opts)}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetJSON decodes the value at key into dest. It reports false on a miss.
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		logger.GetLogger().Error("Failed to get key",
			zap.String("key", key),
			zap.Error(err),
		)
		return false, fmt.Errorf("failed to get key: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return true, nil
}

// UpdateJSON runs a read-modify-write on key under WATCH. fn receives the
// current raw value (nil on a miss) and returns the replacement. The write
// is retried when another client changed the key in between.
func (c *Client) UpdateJSON(ctx context.Context, key string, ttl time.Duration, fn func(current []byte) (interface{}, error)) error {
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := c.rdb.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			logger.GetLogger().Debug("Optimistic update conflict, retrying",
				zap.String("key", key),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		return err
	}

	return ErrConflict
}

// PoolStats reports connection pool counters, shown by the redis health check
func (c *Client) PoolStats() map[string]interface{} {
	stats := c.rdb.PoolStats()
	return map[string]interface{}{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}
