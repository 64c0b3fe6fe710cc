package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/cache"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
)

func TestKey(t *testing.T) {
	problem := &domain.Problem{ID: 3, Version: 1}
	params := domain.RunParameters{PopulationSize: 20, Generations: 50, MutationRate: 0.05, Seed: 7}

	key, err := cache.Key(problem, params)
	require.NoError(t, err)
	require.Regexp(t, `^result_3_1_[0-9a-f]{16}$`, key)

	again, err := cache.Key(problem, params)
	require.NoError(t, err)
	require.Equal(t, key, again)

	params.Seed = 8
	other, err := cache.Key(problem, params)
	require.NoError(t, err)
	require.NotEqual(t, key, other)

	params.Seed = 7
	problem.Version = 2
	bumped, err := cache.Key(problem, params)
	require.NoError(t, err)
	require.NotEqual(t, key, bumped)
}

func TestCacheable(t *testing.T) {
	require.False(t, cache.Cacheable(domain.RunParameters{}))
	require.True(t, cache.Cacheable(domain.RunParameters{Seed: 1}))
}

func TestNilCacheIsMiss(t *testing.T) {
	var c *cache.ResultCache
	result, err := c.Get(context.Background(), &domain.Problem{}, domain.RunParameters{Seed: 1})
	require.NoError(t, err)
	require.Nil(t, result)
	require.NoError(t, c.Set(context.Background(), &domain.Problem{}, domain.RunParameters{Seed: 1}, &domain.RunResult{}))
}
