package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix   = "storefront:kv:"
	redisChangesChan = "storefront:kv:changes"
	redisDeletedFlag = "!deleted:"
)

// RedisStore backs the snapshot store with Redis, for deployments
// where multiple app instances must share one cart state. Change
// notifications ride a pub/sub channel published on every write.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// Get reads the value for key.
func (s *RedisStore) Get(key string) ([]byte, bool, error) {
	data, err := s.client.Get(context.Background(), redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return data, true, nil
}

// Set replaces the value for key and broadcasts the change.
func (s *RedisStore) Set(key string, value []byte) error {
	ctx := context.Background()
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	s.client.Publish(ctx, redisChangesChan, key)
	return nil
}

// Delete removes the key and broadcasts the deletion.
func (s *RedisStore) Delete(key string) error {
	ctx := context.Background()
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	s.client.Publish(ctx, redisChangesChan, redisDeletedFlag+key)
	return nil
}

// Watch subscribes to the change channel until ctx is cancelled.
func (s *RedisStore) Watch(ctx context.Context) (<-chan Event, error) {
	sub := s.client.Subscribe(ctx, redisChangesChan)
	events := make(chan Event)
	go func() {
		defer close(events)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				ev := Event{Key: msg.Payload}
				if len(msg.Payload) > len(redisDeletedFlag) && msg.Payload[:len(redisDeletedFlag)] == redisDeletedFlag {
					ev = Event{Key: msg.Payload[len(redisDeletedFlag):], Deleted: true}
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events, nil
}

// Close shuts the Redis connection down.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
