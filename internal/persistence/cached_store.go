package persistence

import (
	"context"

	"drift/internal/persistence/interfaces"
	"drift/internal/providers"
)

const cachePrefix = "kv:"

// CachedStore serves reads from the cache provider and writes through to
// the inner store. A failed write evicts the key so the cache never holds a
// value the store does not.
type CachedStore struct {
	inner interfaces.KeyValueStoreInterface
	cache providers.CacheProviderInterface
}

func NewCachedStore(inner interfaces.KeyValueStoreInterface, cache providers.CacheProviderInterface) *CachedStore {
	return &CachedStore{inner: inner, cache: cache}
}

func (c *CachedStore) Get(ctx context.Context, key string) (string, bool, error) {
	if val, ok := c.cache.Get(cachePrefix + key); ok {
		return string(val), true, nil
	}

	val, found, err := c.inner.Get(ctx, key)
	if err != nil || !found {
		return val, found, err
	}
	c.cache.Set(cachePrefix+key, []byte(val))
	return val, true, nil
}

func (c *CachedStore) Set(ctx context.Context, key, value string) error {
	if err := c.inner.Set(ctx, key, value); err != nil {
		c.cache.Del(cachePrefix + key)
		return err
	}
	c.cache.Set(cachePrefix+key, []byte(value))
	return nil
}

func (c *CachedStore) Delete(ctx context.Context, key string) error {
	c.cache.Del(cachePrefix + key)
	return c.inner.Delete(ctx, key)
}

func (c *CachedStore) Close() error {
	c.cache.Clear()
	return c.inner.Close()
}

var _ interfaces.KeyValueStoreInterface = (*CachedStore)(nil)
