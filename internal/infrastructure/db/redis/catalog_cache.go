package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusreg/registration-system/internal/core/domain"
)

const catalogTTL = 15 * time.Minute

// CatalogCache stores class catalog entries in Redis with a TTL.
// Key format: class:<class_id>, value is the JSON-encoded class.
type CatalogCache struct {
	client *redis.Client
}

// NewCatalogCache creates a CatalogCache wrapping the given Redis client.
func NewCatalogCache(client *redis.Client) *CatalogCache {
	return &CatalogCache{client: client}
}

// Get returns the cached class, or nil without error on a miss.
func (c *CatalogCache) Get(ctx context.Context, classID string) (*domain.Class, error) {
	raw, err := c.client.Get(ctx, c.key(classID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog cache get: %w", err)
	}

	var class domain.Class
	if err := json.Unmarshal(raw, &class); err != nil {
		return nil, fmt.Errorf("catalog cache decode: %w", err)
	}
	return &class, nil
}

// Set stores the class (expires after catalogTTL).
func (c *CatalogCache) Set(ctx context.Context, class *domain.Class) error {
	raw, err := json.Marshal(class)
	if err != nil {
		return fmt.Errorf("catalog cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(class.ID), raw, catalogTTL).Err()
}

func (c *CatalogCache) key(classID string) string {
	return "class:" + classID
}
