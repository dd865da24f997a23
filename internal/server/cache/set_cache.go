// Package cache holds the in-process caches of the set service: a bounded
// set record cache and permanent reference table memos.
package cache

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/dmitrijs2005/postsets/internal/server/models"
	"go.mukunda.com/oncache/sieve"
)

// SetCache holds full denormalized set records keyed by set id.
// Implementations return and store copies, never shared pointers.
type SetCache interface {
	Get(ctx context.Context, id models.SetID) (*models.Set, bool, error)
	Put(ctx context.Context, set *models.Set) error
	Remove(ctx context.Context, id models.SetID) error
}

// tombstoneTTL is how long a removed id refuses writes. It covers a read
// that loaded the set before its deletion committed and populates late.
const tombstoneTTL = time.Minute

// SieveSetCache is a SetCache backed by a SIEVE eviction cache.
//
// A Put carrying an older revision than the cached record is dropped, so a
// slow writeback cannot replace a newer one. Tombstones of removed ids are
// kept outside the SIEVE and are not subject to eviction.
type SieveSetCache struct {
	mu         sync.Mutex
	data       *sieve.Sieve
	ttl        time.Duration
	tombstones map[models.SetID]int64
}

var _ SetCache = (*SieveSetCache)(nil)

// NewSieveSetCache creates a cache holding at most maxKeys records, each for
// at most ttl (0 keeps records until evicted).
func NewSieveSetCache(maxKeys int, ttl time.Duration) *SieveSetCache {
	if maxKeys < 1 {
		maxKeys = 1
	}
	if maxKeys > math.MaxUint16 {
		maxKeys = math.MaxUint16
	}
	return &SieveSetCache{
		data:       sieve.NewSieve(uint16(maxKeys)),
		ttl:        ttl,
		tombstones: make(map[models.SetID]int64),
	}
}

// Get locks exclusively: a sieve lookup updates visited bits and drops
// expired records.
func (c *SieveSetCache) Get(_ context.Context, id models.SetID) (*models.Set, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, ok := c.data.Get(id.String()).(*models.Set)
	if !ok {
		return nil, false, nil
	}
	return set.Clone(), true, nil
}

func (c *SieveSetCache) Put(_ context.Context, set *models.Set) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if until, ok := c.tombstones[set.ID]; ok {
		if sieve.Now() <= until {
			return nil
		}
		delete(c.tombstones, set.ID)
	}

	key := set.ID.String()
	if cached, ok := c.data.Get(key).(*models.Set); ok && cached.Revision > set.Revision {
		return nil
	}
	c.data.Set(key, set.Clone(), c.ttl)
	return nil
}

func (c *SieveSetCache) Remove(_ context.Context, id models.SetID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data.Delete(id.String())
	c.tombstones[id] = sieve.Now() + int64(tombstoneTTL/time.Second)
	return nil
}

// Clean drops expired records and tombstones.
func (c *SieveSetCache) Clean() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data.Clean()
	now := sieve.Now()
	for id, until := range c.tombstones {
		if now > until {
			delete(c.tombstones, id)
		}
	}
}

// RunCleaner calls Clean every period until ctx is done.
func (c *SieveSetCache) RunCleaner(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Clean()
		}
	}
}
