//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"amani/internal/cache"
	"amani/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *cache.Redis
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = cache.NewRedis(s.redis.Client, "")
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestMissThenHit() {
	ctx := context.Background()

	_, hit, err := s.store.Get(ctx, "programs/p-1")
	s.Require().NoError(err)
	s.False(hit)

	s.Require().NoError(s.store.Set(ctx, "programs/p-1", []byte(`{"items":[]}`), time.Minute))

	got, hit, err := s.store.Get(ctx, "programs/p-1")
	s.Require().NoError(err)
	s.True(hit)
	s.Equal([]byte(`{"items":[]}`), got)
}

func (s *RedisStoreSuite) TestTTLExpiry() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "programs/p-1", []byte("v"), 300*time.Millisecond))
	time.Sleep(time.Second)

	_, hit, err := s.store.Get(ctx, "programs/p-1")
	s.Require().NoError(err)
	s.False(hit)
}

func (s *RedisStoreSuite) TestDelete() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "programs/p-1", []byte("1"), 0))
	s.Require().NoError(s.store.Set(ctx, "programs/p-2", []byte("2"), 0))

	s.Require().NoError(s.store.Delete(ctx, "programs/p-1", "programs/missing"))

	_, hit, err := s.store.Get(ctx, "programs/p-1")
	s.Require().NoError(err)
	s.False(hit)
	_, hit, err = s.store.Get(ctx, "programs/p-2")
	s.Require().NoError(err)
	s.True(hit)
}

func (s *RedisStoreSuite) TestDeleteByPrefix() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "programs?", []byte("1"), 0))
	s.Require().NoError(s.store.Set(ctx, "programs?status==active", []byte("2"), 0))
	s.Require().NoError(s.store.Set(ctx, "programs/p-1", []byte("3"), 0))
	s.Require().NoError(s.store.Set(ctx, "donations?", []byte("4"), 0))

	s.Require().NoError(s.store.DeleteByPrefix(ctx, "programs?"))

	_, hit, err := s.store.Get(ctx, "programs?")
	s.Require().NoError(err)
	s.False(hit)
	_, hit, err = s.store.Get(ctx, "programs?status==active")
	s.Require().NoError(err)
	s.False(hit)
	_, hit, err = s.store.Get(ctx, "programs/p-1")
	s.Require().NoError(err)
	s.True(hit)
	_, hit, err = s.store.Get(ctx, "donations?")
	s.Require().NoError(err)
	s.True(hit)
}
