package repositories

import (
	"context"
	"errors"
	"fmt"

	"load-planning-service/internal/platform/obs"
	"load-planning-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

// Optimistic transaction retries before Put gives up on a contended kind.
const maxPutAttempts = 32

// RedisRecordStore keeps each kind in a hash of key -> body plus a list
// holding the keys in insertion order.
type RedisRecordStore struct {
	Client *redis.Client
	Prefix string
}

func NewRedisRecordStore(client *redis.Client) *RedisRecordStore {
	return &RedisRecordStore{Client: client, Prefix: "records"}
}

func (s *RedisRecordStore) hashKey(kind ports.RecordKind) string {
	return s.Prefix + ":" + string(kind)
}

func (s *RedisRecordStore) orderKey(kind ports.RecordKind) string {
	return s.Prefix + ":" + string(kind) + ":order"
}

func (s *RedisRecordStore) Put(ctx context.Context, kind ports.RecordKind, key string, body []byte) error {
	if s.Client == nil {
		return errors.New("redis record store: client is nil")
	}
	if key == "" {
		return errors.New("put record: key must not be empty")
	}

	hashKey, orderKey := s.hashKey(kind), s.orderKey(kind)

	// The hash field and its order entry are written in one MULTI block,
	// guarded by WATCH so two writers of a new key cannot both append it.
	put := func(tx *redis.Tx) error {
		exists, err := tx.HExists(ctx, hashKey, key).Result()
		if err != nil {
			return fmt.Errorf("hexists: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, hashKey, key, body)
			// Replacements keep their slot.
			if !exists {
				pipe.RPush(ctx, orderKey, key)
			}
			return nil
		})
		return err
	}

	for range maxPutAttempts {
		err := s.Client.Watch(ctx, put, hashKey)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return fmt.Errorf("put record: kind=%s key=%q: %w", kind, key, err)
		}
	}

	return fmt.Errorf("put record: kind=%s key=%q: %w", kind, key, redis.TxFailedErr)
}

func (s *RedisRecordStore) List(ctx context.Context, kind ports.RecordKind) (_ []ports.Record, err error) {
	defer obs.Time(ctx, "records.redis.List")(&err)

	if s.Client == nil {
		return nil, errors.New("redis record store: client is nil")
	}

	keys, err := s.Client.LRange(ctx, s.orderKey(kind), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list records: lrange kind=%s: %w", kind, err)
	}
	if len(keys) == 0 {
		return []ports.Record{}, nil
	}

	values, err := s.Client.HMGet(ctx, s.hashKey(kind), keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list records: hmget kind=%s: %w", kind, err)
	}

	records := make([]ports.Record, 0, len(keys))
	for i, v := range values {
		body, ok := v.(string)
		if !ok {
			// Key listed in order but missing from the hash.
			continue
		}
		records = append(records, ports.Record{Key: keys[i], Body: []byte(body)})
	}

	return records, nil
}
