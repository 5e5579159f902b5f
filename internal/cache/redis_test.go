package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/staybook/config"
	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisCache(t *testing.T) {
	c := NewRedisCache(config.RedisConfig{Addr: "localhost:6379"}, time.Minute, time.Hour)
	defer c.Close()

	assert.NotNil(t, c.client)
	assert.Equal(t, time.Minute, c.catalogTTL)
	assert.Equal(t, time.Hour, c.sessionTTL)
}

func TestSetSession_RequiresID(t *testing.T) {
	c := NewRedisCache(config.RedisConfig{Addr: "localhost:6379"}, time.Minute, time.Hour)
	defer c.Close()

	err := c.SetSession(context.Background(), &domain.Session{Token: "tok"})
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "session:abc", sessionKey("abc"))
	assert.Equal(t, "cache:house-types", houseTypesKey())
	assert.Equal(t, "lock:order:u1:h1:2025-01-10:2025-01-12", orderLockKey("u1:h1:2025-01-10:2025-01-12"))
	assert.Equal(t, "wishlist:user:u1", wishlistKey("u1"))
}
