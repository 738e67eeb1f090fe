package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/crucial707/asset-audit/internal/metrics"
	"github.com/crucial707/asset-audit/internal/models"
	"github.com/crucial707/asset-audit/internal/snipeit"
)

// DefaultTTL is how long a stored snapshot stays fresh.
const DefaultTTL = 10 * time.Minute

// FetchFunc pulls the full raw inventory. The cache invokes it on a cold
// slot, TTL expiry, or forced refresh.
type FetchFunc func(ctx context.Context) ([]snipeit.Asset, error)

// Cache is the process-wide single slot holding the classified snapshot.
// The (data, fetchedAt) pair swaps atomically under the mutex, but the
// fetch itself runs unlocked: concurrent misses may both refetch and the
// last completed write wins. Contention is human-triggered and rare.
type Cache struct {
	fetch FetchFunc
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	data      *models.Snapshot
	fetchedAt time.Time
}

// NewCache returns a Cache refreshing via fetch. ttl <= 0 selects DefaultTTL.
func NewCache(fetch FetchFunc, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{fetch: fetch, ttl: ttl, now: time.Now}
}

// Result is one cache read: the snapshot, whether it came from the slot,
// and how old the slot was at read time (zero for a fresh fetch).
type Result struct {
	Snapshot *models.Snapshot
	Cached   bool
	Age      time.Duration
}

// Get returns the snapshot, refetching the full inventory when forced,
// when the slot is empty, or when the slot has outlived the TTL.
func (c *Cache) Get(ctx context.Context, force bool) (Result, error) {
	reason := "forced"
	if !force {
		c.mu.Lock()
		age := c.now().Sub(c.fetchedAt)
		if c.data != nil && age < c.ttl {
			res := Result{Snapshot: c.data, Cached: true, Age: age}
			c.mu.Unlock()
			return res, nil
		}
		if c.data == nil {
			reason = "cold"
		} else {
			reason = "expired"
		}
		c.mu.Unlock()
	}

	assets, err := c.fetch(ctx)
	if err != nil {
		return Result{}, err
	}
	snap := Classify(assets, c.now())
	metrics.IncSnapshotRefresh(reason)
	metrics.SetSnapshotAssets(snap.Total)

	c.mu.Lock()
	c.data = snap
	c.fetchedAt = c.now()
	c.mu.Unlock()

	return Result{Snapshot: snap, Cached: false, Age: 0}, nil
}
