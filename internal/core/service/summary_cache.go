package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/billable/timesheet-api/internal/core/domain"
	"github.com/billable/timesheet-api/internal/pkg/metrics"
)

// SummaryTTL is how long a computed billing summary is served from cache.
const SummaryTTL = 30 * time.Second

// computeTimeout bounds one aggregation. The computation is detached from the
// caller that started it, since other callers may be waiting on its result.
const computeTimeout = 30 * time.Second

// SummaryComputer produces a fresh billing summary for a project.
type SummaryComputer interface {
	Summarize(ctx context.Context, projectID string) (*domain.BillingSummary, error)
}

type cacheEntry struct {
	summary    *domain.BillingSummary
	computedAt time.Time
}

// SummaryCache memoizes billing summaries per project for SummaryTTL.
//
// Concurrent misses for the same project wait on a single computation, and
// computations for one project never overlap. Each project carries a
// generation counter bumped by Invalidate: a computation only stores its
// result if the generation it started under is still current, and callers
// arriving after an invalidation never join a computation that started
// before it.
//
// The cache holds one snapshot per project ever summarized and does not evict.
type SummaryCache struct {
	computer SummaryComputer
	ttl      time.Duration
	now      func() time.Time
	log      zerolog.Logger

	mu        sync.Mutex
	entries   map[string]cacheEntry
	gens      map[string]uint64
	flight    singleflight.Group
	computing *keyedMutex
}

func NewSummaryCache(computer SummaryComputer, log zerolog.Logger) *SummaryCache {
	return &SummaryCache{
		computer:  computer,
		ttl:       SummaryTTL,
		now:       time.Now,
		log:       log,
		entries:   make(map[string]cacheEntry),
		gens:      make(map[string]uint64),
		computing: newKeyedMutex(defaultLockStripes),
	}
}

// GetOrCompute returns the cached summary for projectID while it is fresh
// (cached=true), otherwise computes, stores and returns a new one
// (cached=false). Errors are never cached. A caller whose ctx ends stops
// waiting with ctx.Err(); the computation keeps running for the others.
func (c *SummaryCache) GetOrCompute(ctx context.Context, projectID string) (*domain.BillingSummary, bool, error) {
	c.mu.Lock()
	if s, ok := c.freshLocked(projectID); ok {
		c.mu.Unlock()
		c.log.Debug().Str("project_id", projectID).Msg("billing summary cache hit")
		return s.Clone(), true, nil
	}
	gen := c.gens[projectID]
	c.mu.Unlock()

	key := projectID + "#" + strconv.FormatUint(gen, 10)
	ch := c.flight.DoChan(key, func() (any, error) {
		return c.compute(context.WithoutCancel(ctx), projectID, gen)
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		c.log.Debug().Str("project_id", projectID).Bool("shared", res.Shared).Msg("billing summary computed")
		return res.Val.(*domain.BillingSummary).Clone(), false, nil
	}
}

// compute runs one aggregation for projectID and stores it unless the
// project was invalidated after gen was read.
func (c *SummaryCache) compute(ctx context.Context, projectID string, gen uint64) (*domain.BillingSummary, error) {
	unlock := c.computing.Lock(projectID)
	defer unlock()

	c.mu.Lock()
	if s, ok := c.freshLocked(projectID); ok {
		c.mu.Unlock()
		return s, nil
	}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, computeTimeout)
	defer cancel()

	start := time.Now()
	s, err := c.computer.Summarize(ctx, projectID)
	metrics.BillingAggregationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[projectID] == gen {
		c.entries[projectID] = cacheEntry{summary: s, computedAt: c.now()}
		metrics.BillingCacheEntries.Set(float64(len(c.entries)))
	}
	return s, nil
}

// Invalidate drops the cached summary for projectID, if any.
func (c *SummaryCache) Invalidate(projectID string) {
	c.mu.Lock()
	delete(c.entries, projectID)
	c.gens[projectID]++
	metrics.BillingCacheEntries.Set(float64(len(c.entries)))
	c.mu.Unlock()

	metrics.BillingCacheInvalidationsTotal.Inc()
	c.log.Debug().Str("project_id", projectID).Msg("billing summary invalidated")
}

// Len returns the number of cached summaries, fresh or not.
func (c *SummaryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *SummaryCache) freshLocked(projectID string) (*domain.BillingSummary, bool) {
	e, ok := c.entries[projectID]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.computedAt) >= c.ttl {
		return nil, false
	}
	return e.summary, true
}
