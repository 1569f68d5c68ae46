package cache

import (
	"context"
	"errors"
	"time"

	"github.com/allegro/bigcache/v3"
)

type BigCache struct {
	c *bigcache.BigCache
}

func NewBigCache(ttl time.Duration) (*BigCache, error) {
	conf := bigcache.DefaultConfig(ttl)
	conf.Shards = 64
	conf.HardMaxCacheSize = 32 // MB
	conf.Verbose = false

	c, err := bigcache.New(context.Background(), conf)
	if err != nil {
		return nil, err
	}
	return &BigCache{c: c}, nil
}

func (b *BigCache) Get(key string) ([]byte, bool) {
	entry, err := b.c.Get(key)
	if err != nil {
		if !errors.Is(err, bigcache.ErrEntryNotFound) {
			log.Warn("bigcache get", "err", err, "key", key)
		}
		return nil, false
	}
	return entry, true
}

func (b *BigCache) Set(key string, entry []byte) {
	if err := b.c.Set(key, entry); err != nil {
		log.Warn("bigcache set", "err", err, "key", key)
	}
}

func (b *BigCache) Len() int {
	return b.c.Len()
}

func (b *BigCache) Close() error {
	return b.c.Close()
}
