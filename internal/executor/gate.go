package executor

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// DefaultCapacity is the number of linter processes allowed in flight when
// no capacity is configured.
const DefaultCapacity = 4

// Gate is a counting permit pool bounding how many linter processes run at
// once. Acquire blocks only the calling goroutine.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int
	limiter  *rate.Limiter
}

// NewGate creates a Gate with the given capacity. A capacity below 1 uses
// DefaultCapacity. spawnRate caps process starts per second; 0 disables the cap.
func NewGate(capacity int, spawnRate float64) *Gate {
	if capacity < 1 {
		capacity = DefaultCapacity
	}

	g := &Gate{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: capacity,
	}
	if spawnRate > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(spawnRate), 1)
	}
	return g
}

// Capacity returns the maximum number of permits.
func (g *Gate) Capacity() int {
	return g.capacity
}

// Acquire waits for a permit, then for the spawn rate limiter if one is set.
// On error no permit is held.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire permit: %w", err)
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			g.sem.Release(1)
			return fmt.Errorf("wait for spawn slot: %w", err)
		}
	}
	return nil
}

// Release returns a permit acquired with Acquire.
func (g *Gate) Release() {
	g.sem.Release(1)
}
