package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/inference-gateway/pasteboard/internal/domain"
)

const redisMaxRetries = 5

// RedisStore keeps media in Redis so several processes can share them
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisBackend implements domain.Backend with a type list, a payload hash
// and an INCR change token per medium. With a TTL the content keys expire but
// the token does not; a held marker without expiry records that content was
// present, so an expiry is observed and counted as a mutation.
type RedisBackend struct {
	name  string
	store *RedisStore
}

// NewRedisStore connects to Redis
func NewRedisStore(config RedisConfig) (*RedisStore, error) {
	options := &redis.Options{
		Addr:        fmt.Sprintf("%s:%d", config.Host, config.Port),
		DB:          config.Database,
		Password:    config.Password,
		Username:    config.Username,
		DialTimeout: 5 * time.Second,
	}

	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	var ttl time.Duration
	if config.TTL > 0 {
		ttl = time.Duration(config.TTL) * time.Second
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
	}, nil
}

// Backend returns the backend for the named medium
func (s *RedisStore) Backend(name string) (domain.Backend, error) {
	return &RedisBackend{name: name, store: s}, nil
}

// Close closes the client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (b *RedisBackend) typesKey() string {
	return fmt.Sprintf("pasteboard:%s:types", b.name)
}

func (b *RedisBackend) dataKey() string {
	return fmt.Sprintf("pasteboard:%s:data", b.name)
}

func (b *RedisBackend) tokenKey() string {
	return fmt.Sprintf("pasteboard:%s:token", b.name)
}

func (b *RedisBackend) heldKey() string {
	return fmt.Sprintf("pasteboard:%s:held", b.name)
}

// Name returns the medium name
func (b *RedisBackend) Name() string {
	return b.name
}

// ChangeToken returns the mutation counter, advancing it first when the
// content expired since the last mutation
func (b *RedisBackend) ChangeToken(ctx context.Context) (int64, error) {
	if b.store.ttl > 0 {
		if err := b.expire(ctx); err != nil {
			return 0, err
		}
	}

	token, err := b.store.client.Get(ctx, b.tokenKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read change token: %w", err)
	}
	return token, nil
}

// Types lists stored types in write order
func (b *RedisBackend) Types(ctx context.Context) ([]string, error) {
	types, err := b.store.client.LRange(ctx, b.typesKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list types: %w", err)
	}
	return types, nil
}

// ReadPayload returns the payload stored for typ
func (b *RedisBackend) ReadPayload(ctx context.Context, typ string) ([]byte, bool, error) {
	data, err := b.store.client.HGet(ctx, b.dataKey(), typ).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", typ, err)
	}
	return data, true, nil
}

// WritePayload stores one entry, keeping the position of an existing type
func (b *RedisBackend) WritePayload(ctx context.Context, typ string, data []byte) error {
	return b.watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.HExists(ctx, b.dataKey(), typ).Result()
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if !exists {
				pipe.RPush(ctx, b.typesKey(), typ)
			}
			pipe.HSet(ctx, b.dataKey(), typ, data)
			b.bump(ctx, pipe, true)
			return nil
		})
		return err
	})
}

// Replace swaps the whole medium content
func (b *RedisBackend) Replace(ctx context.Context, entries []domain.Entry) error {
	entries = dedupeEntries(entries)

	_, err := b.store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, b.typesKey(), b.dataKey())
		if len(entries) > 0 {
			types := make([]interface{}, 0, len(entries))
			payloads := make([]interface{}, 0, 2*len(entries))
			for _, e := range entries {
				types = append(types, e.Type)
				payloads = append(payloads, e.Type, e.Data)
			}
			pipe.RPush(ctx, b.typesKey(), types...)
			pipe.HSet(ctx, b.dataKey(), payloads...)
		}
		b.bump(ctx, pipe, len(entries) > 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace pasteboard %s: %w", b.name, err)
	}
	return nil
}

// Clear removes every entry
func (b *RedisBackend) Clear(ctx context.Context) error {
	_, err := b.store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, b.typesKey(), b.dataKey())
		b.bump(ctx, pipe, false)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to clear pasteboard %s: %w", b.name, err)
	}
	return nil
}

// ClearType removes the entry for typ
func (b *RedisBackend) ClearType(ctx context.Context, typ string) error {
	return b.watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.HExists(ctx, b.dataKey(), typ).Result()
		if err != nil || !exists {
			return err
		}
		remaining, err := tx.HLen(ctx, b.dataKey()).Result()
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.LRem(ctx, b.typesKey(), 0, typ)
			pipe.HDel(ctx, b.dataKey(), typ)
			b.bump(ctx, pipe, remaining > 1)
			return nil
		})
		return err
	})
}

// Close is a no-op; the store owns the client
func (b *RedisBackend) Close() error {
	return nil
}

// bump queues the token increment and refreshes expirations. held tells
// whether the medium has content after the mutation.
func (b *RedisBackend) bump(ctx context.Context, pipe redis.Pipeliner, held bool) {
	pipe.Incr(ctx, b.tokenKey())
	if b.store.ttl <= 0 {
		return
	}
	pipe.Expire(ctx, b.typesKey(), b.store.ttl)
	pipe.Expire(ctx, b.dataKey(), b.store.ttl)
	if held {
		pipe.Set(ctx, b.heldKey(), 1, 0)
	} else {
		pipe.Del(ctx, b.heldKey())
	}
}

// expire advances the token once when content that was held has expired
func (b *RedisBackend) expire(ctx context.Context) error {
	return b.watch(ctx, func(tx *redis.Tx) error {
		held, err := tx.Exists(ctx, b.heldKey()).Result()
		if err != nil {
			return err
		}
		if held == 0 {
			return nil
		}
		live, err := tx.Exists(ctx, b.typesKey()).Result()
		if err != nil || live > 0 {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, b.heldKey(), b.dataKey())
			pipe.Incr(ctx, b.tokenKey())
			return nil
		})
		return err
	})
}

// watch runs fn optimistically, retrying when another client touched the medium
func (b *RedisBackend) watch(ctx context.Context, fn func(tx *redis.Tx) error) error {
	for i := 0; i < redisMaxRetries; i++ {
		err := b.store.client.Watch(ctx, fn, b.typesKey(), b.dataKey(), b.heldKey())
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to update pasteboard %s: %w", b.name, err)
		}
		return nil
	}
	return fmt.Errorf("failed to update pasteboard %s: %w", b.name, redis.TxFailedErr)
}
