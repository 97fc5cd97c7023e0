// Package cache keeps upstream listing responses in memory.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/zeromicro/go-zero/core/logx"
)

// VaultCache stores JSON-encoded listing responses for a fixed lifetime.
type VaultCache struct {
	cache *bigcache.BigCache
}

// NewVaultCache creates a cache whose entries expire after ttl.
func NewVaultCache(ttl time.Duration, maxEntrySize int) (*VaultCache, error) {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	cfg := bigcache.DefaultConfig(ttl)
	cfg.Shards = 64
	cfg.CleanWindow = ttl
	if maxEntrySize > 0 {
		cfg.MaxEntrySize = maxEntrySize
	}
	cfg.Verbose = false

	c, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("创建 BigCache 实例失败: %w", err)
	}
	return &VaultCache{cache: c}, nil
}

// Key joins the parts of a listing query into a cache key.
func Key(parts ...string) string {
	return strings.Join(parts, "|")
}

// Get decodes the entry for key into out and reports whether it was present.
func (c *VaultCache) Get(key string, out any) (bool, error) {
	data, err := c.cache.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		// a bad entry is treated as a miss and dropped
		_ = c.cache.Delete(key)
		return false, nil
	}
	return true, nil
}

func (c *VaultCache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.cache.Set(key, data)
}

func (c *VaultCache) Close() error {
	return c.cache.Close()
}

// GetOrLoad returns the cached value for key, calling load and caching its
// result on a miss. Cache failures fall through to load.
func GetOrLoad[T any](ctx context.Context, c *VaultCache, key string, load func() (T, error)) (T, error) {
	logger := logx.WithContext(ctx)
	if c != nil {
		var cached T
		hit, err := c.Get(key, &cached)
		if err != nil {
			logger.Errorf("读取缓存失败 [%s]: %v", key, err)
		}
		if hit {
			return cached, nil
		}
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if c != nil {
		if err := c.Set(key, v); err != nil {
			logger.Errorf("写入缓存失败 [%s]: %v", key, err)
		}
	}
	return v, nil
}
