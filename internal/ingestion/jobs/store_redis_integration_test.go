//go:build integration

package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"credhub/internal/ingestion/jobs"
	"credhub/internal/ingestion/models"
	"credhub/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *jobs.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = jobs.NewRedisStore(s.redis.Client, time.Minute)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.Flush(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	result := models.NewResult(2)
	result.Success = 1
	result.Failed = 1
	result.Errors = []string{"row 3: institution is not authorized"}
	job := jobs.Job{
		ID:        jobs.NewID(),
		Status:    jobs.StatusCompleted,
		Progress:  models.NewProgress(2, 2),
		Result:    result,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}

	s.Require().NoError(s.store.Save(ctx, job))
	got, err := s.store.Get(ctx, job.ID)

	s.Require().NoError(err)
	s.Equal(job.Status, got.Status)
	s.Equal(job.Result, got.Result)
	s.True(job.UpdatedAt.Equal(got.UpdatedAt))

	ttl, err := s.redis.Client.TTL(ctx, "credhub:ingestion:job:"+job.ID.String()).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *RedisStoreSuite) TestMissingJob() {
	_, err := s.store.Get(context.Background(), jobs.NewID())
	s.ErrorIs(err, jobs.ErrNotFound)
}
