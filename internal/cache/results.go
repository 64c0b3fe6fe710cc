package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
)

// ResultCache 用 redis 缓存求解结果。
// 只有指定了种子的运行才会被缓存，因为只有这样相同的请求才会得到相同的结果
type ResultCache struct {
	client     *redis.Client
	expiration time.Duration
	timeout    time.Duration
}

func NewResultCache(client *redis.Client, expiration, timeout time.Duration) *ResultCache {
	return &ResultCache{
		client:     client,
		expiration: expiration,
		timeout:    timeout,
	}
}

// Key 由问题 ID、问题版本和参数的哈希组成，问题被修改后旧的缓存自然失效
func Key(problem *domain.Problem, params domain.RunParameters) (string, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("result_%d_%d_%016x", problem.ID, problem.Version, xxhash.Sum64(data)), nil
}

// Cacheable 判断这组参数的结果是否可以复用
func Cacheable(params domain.RunParameters) bool {
	return params.Seed != 0
}

// Get 在缓存未命中时返回 nil, nil
func (c *ResultCache) Get(ctx context.Context, problem *domain.Problem, params domain.RunParameters) (*domain.RunResult, error) {
	if c == nil || !Cacheable(params) {
		return nil, nil
	}

	key, err := Key(problem, params)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	result := &domain.RunResult{}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *ResultCache) Set(ctx context.Context, problem *domain.Problem, params domain.RunParameters, result *domain.RunResult) error {
	if c == nil || !Cacheable(params) {
		return nil
	}

	key, err := Key(problem, params)
	if err != nil {
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.client.Set(ctx, key, data, c.expiration).Err()
}
