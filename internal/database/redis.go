package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AnshRaj112/codinglearn-backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key holding the JSON document.
const DefaultRedisKey = "codinglearn:db"

// ConnectRedis opens a Redis client from a redis:// URI and pings it.
func ConnectRedis(ctx context.Context, redisURI string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURI)
	if err != nil {
		return nil, err
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	slog.Info("connected to redis", "addr", opt.Addr, "db", opt.DB)
	return client, nil
}

// RedisStore keeps the whole document as one JSON string value. SET is
// atomic, so readers never observe a partial document.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) Load(ctx context.Context) (*models.Database, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.NewDatabase(), nil
		}
		return nil, fmt.Errorf("reading %s from redis: %w", r.key, err)
	}
	return decodeDatabase(data)
}

func (r *RedisStore) Save(ctx context.Context, db *models.Database) error {
	data, err := encodeDatabase(db)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("writing %s to redis: %w", r.key, err)
	}
	return nil
}
