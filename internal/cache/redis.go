package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Domenick1991/staybook/config"
	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores browser sessions, the house-type catalog, order locks and wishlists.
type RedisCache struct {
	client     *redis.Client
	catalogTTL time.Duration
	sessionTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, catalogTTL, sessionTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		catalogTTL: catalogTTL,
		sessionTTL: sessionTTL,
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// SetSession stores sess under its id, replacing any previous value.
func (c *RedisCache) SetSession(ctx context.Context, sess *domain.Session) error {
	if sess.ID == "" {
		return errors.New("session id is required")
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKey(sess.ID), payload, c.sessionTTL).Err()
}

// GetSession returns nil without error when no session is stored under id.
func (c *RedisCache) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	data, err := c.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (c *RedisCache) ClearSession(ctx context.Context, id string) error {
	return c.client.Del(ctx, sessionKey(id)).Err()
}

func (c *RedisCache) GetHouseTypes(ctx context.Context) ([]domain.HouseType, error) {
	data, err := c.client.Get(ctx, houseTypesKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var types []domain.HouseType
	if err := json.Unmarshal(data, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *RedisCache) SetHouseTypes(ctx context.Context, types []domain.HouseType) error {
	payload, err := json.Marshal(types)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, houseTypesKey(), payload, c.catalogTTL).Err()
}

func (c *RedisCache) InvalidateHouseTypes(ctx context.Context) error {
	return c.client.Del(ctx, houseTypesKey()).Err()
}

// AcquireOrderLock guards order creation for one user, listing and stay.
func (c *RedisCache) AcquireOrderLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, orderLockKey(key), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseOrderLock(ctx context.Context, key string) error {
	return c.client.Del(ctx, orderLockKey(key)).Err()
}

// ToggleWishlist adds houseID to the user's wishlist, or removes it when already present.
// It reports whether the listing is on the wishlist afterwards.
func (c *RedisCache) ToggleWishlist(ctx context.Context, userID, houseID string) (bool, error) {
	key := wishlistKey(userID)
	removed, err := c.client.SRem(ctx, key, houseID).Result()
	if err != nil {
		return false, err
	}
	if removed > 0 {
		return false, nil
	}
	if err := c.client.SAdd(ctx, key, houseID).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) Wishlist(ctx context.Context, userID string) ([]string, error) {
	ids, err := c.client.SMembers(ctx, wishlistKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

func sessionKey(id string) string {
	return "session:" + id
}

func houseTypesKey() string {
	return "cache:house-types"
}

func orderLockKey(key string) string {
	return "lock:order:" + key
}

func wishlistKey(userID string) string {
	return fmt.Sprintf("wishlist:user:%s", userID)
}
