package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crewdash/crewdash/internal/cache"
	"github.com/crewdash/crewdash/internal/logging"
	"github.com/crewdash/crewdash/internal/roster"
)

// Plan says how a dashboard activation should obtain fresh data.
type Plan int

const (
	// PlanBlockingFetch means no usable cache exists: show a loading
	// indicator and keep filters disabled until the fetch resolves.
	PlanBlockingFetch Plan = iota
	// PlanBackgroundRefresh means a stale cache was published: fetch in the
	// background while the cached roster stays interactive.
	PlanBackgroundRefresh
	// PlanNone means the cache is fresh: no fetch is needed.
	PlanNone
)

// String returns the label for a Plan.
func (p Plan) String() string {
	switch p {
	case PlanBlockingFetch:
		return "blocking"
	case PlanBackgroundRefresh:
		return "background"
	case PlanNone:
		return "none"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// Activation is the immediate outcome of reading the cache on startup:
// what (if anything) to publish right away, and whether a fetch follows.
type Activation struct {
	// Cached is the roster published immediately, nil on a cache miss.
	Cached roster.Roster

	// WrittenAt is the cache entry's write instant, zero on a miss.
	WrittenAt time.Time

	// Plan says which kind of fetch (if any) must follow.
	Plan Plan
}

// FromCache reports whether the activation published cached data.
func (a Activation) FromCache() bool {
	return a.Cached != nil
}

// Orchestrator coordinates the roster fetch lifecycle against the cache:
// cache-first activation, background refresh of stale data, and write-back
// of successful fetches.
type Orchestrator struct {
	client *Client
	store  *cache.Store
}

// NewOrchestrator creates an orchestrator over the given client and store.
func NewOrchestrator(client *Client, store *cache.Store) *Orchestrator {
	return &Orchestrator{client: client, store: store}
}

// Activate reads the cache and decides the activation plan:
//   - miss: nothing to publish, a blocking fetch follows
//   - stale hit: publish the cached roster, refresh in the background
//   - fresh hit: publish the cached roster, no fetch needed
func (o *Orchestrator) Activate(ctx context.Context) Activation {
	return o.ActivateAt(ctx, time.Now())
}

// ActivateAt is Activate with an explicit clock, for tests.
func (o *Orchestrator) ActivateAt(ctx context.Context, now time.Time) Activation {
	log := logging.FromContext(ctx)

	entry, ok := o.store.Read()
	if !ok {
		log.Debug().
			Str("component", "orchestrator").
			Msg("no usable cache, blocking fetch required")
		return Activation{Plan: PlanBlockingFetch}
	}

	act := Activation{Cached: entry.Data, WrittenAt: entry.WrittenAt()}
	if entry.IsStale(o.store.TTL(), now) {
		act.Plan = PlanBackgroundRefresh
	} else {
		act.Plan = PlanNone
	}

	log.Debug().
		Str("component", "orchestrator").
		Int("records", len(entry.Data)).
		Dur("age", entry.Age(now)).
		Str("plan", act.Plan.String()).
		Msg("cache hit published")
	return act
}

// Refresh performs one fetch and, on success, writes the result through to
// the cache. A cache write failure does not fail the refresh: the fresh
// roster is still returned and the write error is only logged.
func (o *Orchestrator) Refresh(ctx context.Context) (roster.Roster, error) {
	log := logging.FromContext(ctx)

	data, err := o.client.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if writeErr := o.store.Write(data); writeErr != nil && !o.storeDisabled(writeErr) {
		log.Warn().
			Str("component", "orchestrator").
			Err(writeErr).
			Msg("failed to write roster cache")
	}
	return data, nil
}

func (o *Orchestrator) storeDisabled(err error) bool {
	return errors.Is(err, cache.ErrCacheDisabled)
}
