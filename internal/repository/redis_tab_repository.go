package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/albinmanuel/student-management-client/internal/entity"
)

// tabTTL bounds how long an abandoned tab's session survives. A live tab
// refreshes it on every Save.
const tabTTL = 24 * time.Hour

// RedisTabRepository shares tab state between console replicas.
type RedisTabRepository struct {
	client *redis.Client
}

func NewRedisTabRepository(addr, password string) (*RedisTabRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisTabRepository{client: client}, nil
}

func tabKey(tabID string) string {
	return "tab:" + tabID
}

func (r *RedisTabRepository) Save(ctx context.Context, tabID string, state entity.TabState) error {
	j, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal tab state: %w", err)
	}

	if err := r.client.Set(ctx, tabKey(tabID), j, tabTTL).Err(); err != nil {
		return fmt.Errorf("save tab state: %w", err)
	}

	return nil
}

func (r *RedisTabRepository) Load(ctx context.Context, tabID string) (entity.TabState, error) {
	j, err := r.client.Get(ctx, tabKey(tabID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.TabState{}, entity.ErrTabNotFound
		}

		return entity.TabState{}, fmt.Errorf("load tab state: %w", err)
	}

	var state entity.TabState
	if err := json.Unmarshal(j, &state); err != nil {
		return entity.TabState{}, fmt.Errorf("unmarshal tab state: %w", err)
	}

	return state, nil
}

func (r *RedisTabRepository) Delete(ctx context.Context, tabID string) error {
	if err := r.client.Del(ctx, tabKey(tabID)).Err(); err != nil {
		return fmt.Errorf("delete tab state: %w", err)
	}

	return nil
}
