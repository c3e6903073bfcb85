//go:build integration
// +build integration

package integrationtest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	infra_redis_cache "github.com/humanbelnik/moviemingle/internal/infra/redis/cache"
	infra_redis_init "github.com/humanbelnik/moviemingle/internal/infra/redis/init"
	infra_session_cache "github.com/humanbelnik/moviemingle/internal/infra/redis/session"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type RedisIntegrationSuite struct {
	suite.Suite
	sessions *infra_session_cache.Driver
	cache    *infra_redis_cache.Driver
}

func (s *RedisIntegrationSuite) BeforeAll(t provider.T) {
	client := infra_redis_init.MustEstablishConn(getConfig().Redis)
	s.sessions = infra_session_cache.New(client, "test-session")
	s.cache = infra_redis_cache.New(client)
}

func (s *RedisIntegrationSuite) TestSessionLifecycle(t provider.T) {
	token := uuid.NewString()
	userID := uuid.NewString()

	got, err := s.sessions.Get(token)
	assert.NoError(t, err)
	assert.Empty(t, got)

	assert.NoError(t, s.sessions.Set(token, userID, time.Minute))

	got, err = s.sessions.Get(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, got)

	assert.NoError(t, s.sessions.Delete(token))

	got, err = s.sessions.Get(token)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func (s *RedisIntegrationSuite) TestSessionExpiry(t provider.T) {
	token := uuid.NewString()

	assert.NoError(t, s.sessions.Set(token, "value", 50*time.Millisecond))
	time.Sleep(200 * time.Millisecond)

	got, err := s.sessions.Get(token)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func (s *RedisIntegrationSuite) TestCatalogCache(t provider.T) {
	key := "test-catalog:" + uuid.NewString()

	got, err := s.cache.Get(key)
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, s.cache.Set(key, []byte(`{"movies":[]}`), time.Minute))

	got, err = s.cache.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"movies":[]}`), got)
}

func TestRedisIntegrationSuite(t *testing.T) {
	suite.RunSuite(t, new(RedisIntegrationSuite))
}
