package searchstate

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"recipe-catalog/internal/pkg/common"
)

const keyPrefix = "recipes:search_state:"

// RedisStore 以 Redis 保存搜尋暫存，多個實例可共用
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore 連線並測試 Redis
func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 搜尋暫存已連線")
	return &RedisStore{client: client, ttl: ttl}, nil
}

func redisKey(key string) string {
	return keyPrefix + key
}

// Save 以 JSON 寫入並設定 TTL
func (s *RedisStore) Save(ctx context.Context, key string, st State) error {
	data, err := common.ToJSON(st)
	if err != nil {
		return fmt.Errorf("failed to marshal search state: %w", err)
	}

	if err := s.client.Set(ctx, redisKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save search state: %w", err)
	}
	return nil
}

// Pop 以 GETDEL 取出並刪除
func (s *RedisStore) Pop(ctx context.Context, key string) (State, bool, error) {
	data, err := s.client.GetDel(ctx, redisKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return State{}, false, nil
		}
		return State{}, false, fmt.Errorf("failed to pop search state: %w", err)
	}

	var st State
	if err := common.ParseJSONBytes(data, &st); err != nil {
		return State{}, false, fmt.Errorf("failed to unmarshal search state: %w", err)
	}
	return st, true, nil
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
