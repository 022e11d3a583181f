package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/customerhub/backend/internal/domain/customer"
	"github.com/customerhub/backend/internal/domain/shared/valueobject"
)

// DefaultKeyPrefix namespaces every key written by the customer cache
const DefaultKeyPrefix = "customerhub:customer:"

// RedisCustomerCache implements CustomerCache on Redis. It is safe to share
// between instances of the service.
type RedisCustomerCache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
	now       func() time.Time
}

// NewRedisCustomerCache creates a cache over an existing client
func NewRedisCustomerCache(client redis.UniversalClient, ttl time.Duration, keyPrefix string) *RedisCustomerCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisCustomerCache{client: client, keyPrefix: keyPrefix, ttl: ttl, now: time.Now}
}

func (c *RedisCustomerCache) idKey(id uuid.UUID) string {
	return c.keyPrefix + "id:" + id.String()
}

func (c *RedisCustomerCache) emailKey(email string) string {
	return c.keyPrefix + "email:" + valueobject.NormalizeEmail(email)
}

// Get returns the cached customer for id
func (c *RedisCustomerCache) Get(ctx context.Context, id uuid.UUID) (*customer.Customer, bool, error) {
	data, err := c.client.Get(ctx, c.idKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get customer: %w", err)
	}

	cust, err := decodeCustomer(data, c.now())
	if err != nil {
		// an undecodable entry is dropped and reported as a miss
		_ = c.client.Del(ctx, c.idKey(id)).Err()
		return nil, false, nil
	}
	return cust, true, nil
}

// LookupEmail returns the ID cached for email
func (c *RedisCustomerCache) LookupEmail(ctx context.Context, email string) (uuid.UUID, bool, error) {
	raw, err := c.client.Get(ctx, c.emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("redis get email index: %w", err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		_ = c.client.Del(ctx, c.emailKey(email)).Err()
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

// Set stores the customer and its email index with the configured TTL
func (c *RedisCustomerCache) Set(ctx context.Context, cust *customer.Customer) error {
	data, err := encodeCustomer(cust)
	if err != nil {
		return fmt.Errorf("encode customer: %w", err)
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, c.idKey(cust.ID()), data, c.ttl)
		pipe.Set(ctx, c.emailKey(cust.Email().Value()), cust.ID().String(), c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set customer: %w", err)
	}
	return nil
}

// Invalidate removes the customer entry and the given email index entries
func (c *RedisCustomerCache) Invalidate(ctx context.Context, id uuid.UUID, emails ...string) error {
	keys := make([]string, 0, len(emails)+1)
	keys = append(keys, c.idKey(id))
	for _, e := range emails {
		if e != "" {
			keys = append(keys, c.emailKey(e))
		}
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis invalidate customer: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisCustomerCache) Close() error {
	return c.client.Close()
}

var _ CustomerCache = (*RedisCustomerCache)(nil)
