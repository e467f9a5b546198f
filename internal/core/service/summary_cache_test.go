package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billable/timesheet-api/internal/core/domain"
)

// countingComputer counts Summarize calls and can hold them until released.
type countingComputer struct {
	calls   atomic.Int32
	running atomic.Int32
	overlap atomic.Bool
	gate    chan struct{}
	err     error
	hours   string
}

func (c *countingComputer) Summarize(_ context.Context, projectID string) (*domain.BillingSummary, error) {
	c.calls.Add(1)
	if c.running.Add(1) > 1 {
		c.overlap.Store(true)
	}
	defer c.running.Add(-1)

	if c.gate != nil {
		<-c.gate
	}
	if c.err != nil {
		return nil, c.err
	}
	hours := c.hours
	if hours == "" {
		hours = "8"
	}
	return &domain.BillingSummary{
		Project:     domain.ProjectHeader{ID: projectID},
		TotalHours:  dec(hours),
		HoursByUser: []domain.UserHours{{UserID: "u1", Hours: dec(hours)}},
		HoursByDate: []domain.DateHours{},
	}, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(computer SummaryComputer) (*SummaryCache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)}
	cache := NewSummaryCache(computer, zerolog.Nop())
	cache.now = clock.Now
	return cache, clock
}

func TestSummaryCache_HitWithinTTL(t *testing.T) {
	computer := &countingComputer{}
	cache, clock := newTestCache(computer)

	first, cached, err := cache.GetOrCompute(context.Background(), "prj_a")
	require.NoError(t, err)
	assert.False(t, cached)

	clock.Advance(29 * time.Second)
	second, cached, err := cache.GetOrCompute(context.Background(), "prj_a")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), computer.calls.Load())
}

func TestSummaryCache_ExpiresAfterTTL(t *testing.T) {
	computer := &countingComputer{}
	cache, clock := newTestCache(computer)

	_, _, err := cache.GetOrCompute(context.Background(), "prj_a")
	require.NoError(t, err)

	clock.Advance(SummaryTTL)
	_, cached, err := cache.GetOrCompute(context.Background(), "prj_a")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, int32(2), computer.calls.Load())
}

func TestSummaryCache_InvalidateForcesRecompute(t *testing.T) {
	computer := &countingComputer{}
	cache, _ := newTestCache(computer)

	_, _, err := cache.GetOrCompute(context.Background(), "prj_a")
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())

	cache.Invalidate("prj_a")
	assert.Equal(t, 0, cache.Len())

	_, cached, err := cache.GetOrCompute(context.Background(), "prj_a")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, int32(2), computer.calls.Load())
}

func TestSummaryCache_InvalidateIsPerProject(t *testing.T) {
	computer := &countingComputer{}
	cache, _ := newTestCache(computer)

	_, _, _ = cache.GetOrCompute(context.Background(), "prj_a")
	_, _, _ = cache.GetOrCompute(context.Background(), "prj_b")
	cache.Invalidate("prj_a")

	_, cached, err := cache.GetOrCompute(context.Background(), "prj_b")
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestSummaryCache_ErrorsNotCached(t *testing.T) {
	computer := &countingComputer{err: domain.ErrProjectNotFound}
	cache, _ := newTestCache(computer)

	_, _, err := cache.GetOrCompute(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	_, _, err = cache.GetOrCompute(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	assert.Equal(t, int32(2), computer.calls.Load())
	assert.Equal(t, 0, cache.Len())
}

func TestSummaryCache_ReturnsCopies(t *testing.T) {
	computer := &countingComputer{}
	cache, _ := newTestCache(computer)

	first, _, err := cache.GetOrCompute(context.Background(), "prj_a")
	require.NoError(t, err)
	first.HoursByUser[0].UserID = "tampered"

	second, cached, err := cache.GetOrCompute(context.Background(), "prj_a")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "u1", second.HoursByUser[0].UserID)
}

func TestSummaryCache_ConcurrentMissComputesOnce(t *testing.T) {
	computer := &countingComputer{gate: make(chan struct{})}
	cache, _ := newTestCache(computer)

	const callers = 20
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := cache.GetOrCompute(context.Background(), "prj_a")
			errs <- err
		}()
	}

	require.Eventually(t, func() bool { return computer.calls.Load() == 1 }, time.Second, time.Millisecond)
	// Give the remaining callers time to queue behind the computation.
	time.Sleep(20 * time.Millisecond)
	close(computer.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), computer.calls.Load())
}

// ctxComputer blocks until released and fails if its context ends first.
type ctxComputer struct {
	calls atomic.Int32
	gate  chan struct{}
}

func (c *ctxComputer) Summarize(ctx context.Context, projectID string) (*domain.BillingSummary, error) {
	c.calls.Add(1)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.gate:
	}
	return &domain.BillingSummary{
		Project:     domain.ProjectHeader{ID: projectID},
		TotalHours:  dec("8"),
		HoursByUser: []domain.UserHours{},
		HoursByDate: []domain.DateHours{},
	}, nil
}

func TestSummaryCache_CancelledCallerDoesNotFailOthers(t *testing.T) {
	computer := &ctxComputer{gate: make(chan struct{})}
	cache, _ := newTestCache(computer)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, _, err := cache.GetOrCompute(ctxA, "prj_a")
		errA <- err
	}()
	require.Eventually(t, func() bool { return computer.calls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		summary *domain.BillingSummary
		err     error
	}
	resB := make(chan result, 1)
	go func() {
		s, _, err := cache.GetOrCompute(context.Background(), "prj_a")
		resB <- result{s, err}
	}()
	// Let the second caller join the running computation.
	time.Sleep(20 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(computer.gate)
	b := <-resB
	require.NoError(t, b.err)
	assert.True(t, b.summary.TotalHours.Equal(dec("8")))

	assert.Equal(t, int32(1), computer.calls.Load())
	assert.Equal(t, 1, cache.Len(), "result must still be cached")
}

func TestSummaryCache_InvalidateDuringComputeDropsResult(t *testing.T) {
	computer := &countingComputer{gate: make(chan struct{})}
	cache, _ := newTestCache(computer)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, _ = cache.GetOrCompute(context.Background(), "prj_a")
	}()

	require.Eventually(t, func() bool { return computer.calls.Load() == 1 }, time.Second, time.Millisecond)
	cache.Invalidate("prj_a")
	close(computer.gate)
	<-done

	assert.Equal(t, 0, cache.Len(), "stale result must not be stored")

	_, cached, err := cache.GetOrCompute(context.Background(), "prj_a")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.False(t, computer.overlap.Load(), "computations for one project must not overlap")
}

func TestSummaryCache_EndToEndWithAggregator(t *testing.T) {
	store := newStubStore()
	store.addProject("prj_a", "50", domain.ProjectActive)
	store.addUser("u1", "Alice", domain.RoleEmployee)
	cache := NewSummaryCache(NewBillingAggregator(store, store, store), zerolog.Nop())
	logs := NewTimeLogService(store, store, cache, nil, zerolog.Nop())
	actor := domain.Actor{UserID: "u1", Role: domain.RoleEmployee}

	_, err := logs.CreateTimeLog(context.Background(), actor, createInput("prj_a", "3", "2024-01-15"))
	require.NoError(t, err)
	s, _, err := cache.GetOrCompute(context.Background(), "prj_a")
	require.NoError(t, err)
	assert.True(t, s.TotalAmount.Equal(dec("150")))

	l, err := logs.CreateTimeLog(context.Background(), actor, createInput("prj_a", "5", "2024-01-15"))
	require.NoError(t, err)
	s, cached, err := cache.GetOrCompute(context.Background(), "prj_a")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.True(t, s.TotalHours.Equal(dec("8")))
	assert.True(t, s.TotalAmount.Equal(dec("400")))

	_, err = logs.UpdateTimeLogStatus(context.Background(), actor, l.ID, "done")
	require.NoError(t, err)
	_, cached, err = cache.GetOrCompute(context.Background(), "prj_a")
	require.NoError(t, err)
	assert.True(t, cached, "status changes keep the cached summary")

	_, err = logs.CreateTimeLog(context.Background(), actor, createInput("prj_a", "5", "2024-01-15"))
	assert.True(t, errors.Is(err, domain.ErrDailyCapExceeded))
}
