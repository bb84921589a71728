// Package cache wraps a storage.Store with an expirable LRU of Find results.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/akashipov/feeservice/internal/fee"
	"github.com/akashipov/feeservice/internal/storage"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	next storage.Store
	lru  *expirable.LRU[string, []fee.Specification]
	log  *zap.SugaredLogger

	// gen is bumped by every write. A miss only fills the cache when no
	// write happened while it was reading the next store.
	mu  sync.Mutex
	gen uint64
}

// New caches up to size filters for ttl. Every write purges the cache so a
// new configuration is visible to the next resolution.
func New(next storage.Store, size int, ttl time.Duration, log *zap.SugaredLogger) *Store {
	c := &Store{
		next: next,
		lru:  expirable.NewLRU[string, []fee.Specification](size, nil, ttl),
		log:  log,
	}
	log.Infof("LRU cache created! size=%d ttl=%s", size, ttl)
	return c
}

func (c *Store) CountDocuments(ctx context.Context) (int64, error) {
	return c.next.CountDocuments(ctx)
}

func (c *Store) Find(ctx context.Context, filter fee.Filter) ([]fee.Specification, error) {
	key := filter.Key()
	if v, ok := c.lru.Get(key); ok {
		c.log.Debugf("Cache hit for filter '%s'", key)
		return v, nil
	}
	gen := c.generation()
	specs, err := c.next.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		c.lru.Add(key, specs)
	} else {
		c.log.Debugf("Configuration changed while reading filter '%s', result is not cached", key)
	}
	return specs, nil
}

func (c *Store) Save(ctx context.Context, specs ...fee.Specification) error {
	defer c.invalidate()
	return c.next.Save(ctx, specs...)
}

func (c *Store) Replace(ctx context.Context, specs ...fee.Specification) error {
	defer c.invalidate()
	return c.next.Replace(ctx, specs...)
}

func (c *Store) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *Store) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.Purge()
}

func (c *Store) Len() int {
	return c.lru.Len()
}

func (c *Store) Close() error {
	c.invalidate()
	return c.next.Close()
}
