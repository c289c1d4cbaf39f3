// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package reconcile

import (
	"context"
	"sync"

	"github.com/siemens/geoping/iplookup"
	"github.com/siemens/geoping/types"
)

// lookupCache caches geolocation lookups so that unnecessary duplicate
// lookups can be avoided, yet lookup verdicts get distributed at once to all
// targets pending reconciliation on the same IP address.
type lookupCache struct {
	mu sync.Mutex
	m  map[string]*lookupState // IP address -> lookup state and parked targets
}

// lookupState is the cached outcome of a single address lookup, together
// with the targets parked until the verdict is in.
type lookupState struct {
	done     bool
	location iplookup.Location
	err      error          // optional reason why the lookup cannot serve
	waiting  []types.Target // targets awaiting the verdict for their address
}

// newLookupCache returns a new and properly initialized lookupCache.
func newLookupCache() *lookupCache {
	return &lookupCache{
		m: map[string]*lookupState{},
	}
}

// update registers a target's interest in the lookup of its IP address. It
// returns true if this is the first time the address is seen at all, telling
// the caller to now schedule the (expensive, quota-eating) lookup for it.
// Otherwise, the target is either parked on the still-pending lookup, or,
// with the verdict already cached, immediately reconciled and sent on its
// way to the out channel.
func (c *lookupCache) update(ctx context.Context, target types.Target, out chan<- types.Target) bool {
	c.mu.Lock()
	state, ok := c.m[target.IP]
	if !ok {
		// This is the first time we see this address, so the lookup is on
		// the caller; the target waits for it like any later duplicate.
		c.m[target.IP] = &lookupState{waiting: []types.Target{target}}
		c.mu.Unlock()
		return true
	}
	if !state.done {
		state.waiting = append(state.waiting, target)
		c.mu.Unlock()
		return false
	}
	location, err := state.location, state.err
	c.mu.Unlock()
	send(ctx, out, reconciled(target, location, err))
	return false
}

// resolve caches the terminal verdict of an address lookup and distributes
// it to all targets parked on this address. Later updates for the same
// address will be served straight from the cache.
func (c *lookupCache) resolve(ctx context.Context, ip string, location iplookup.Location, err error, out chan<- types.Target) {
	c.mu.Lock()
	state, ok := c.m[ip]
	if !ok {
		state = &lookupState{}
		c.m[ip] = state
	}
	state.done = true
	state.location, state.err = location, err
	waiting := state.waiting
	state.waiting = nil
	c.mu.Unlock()
	for _, target := range waiting {
		send(ctx, out, reconciled(target, location, err))
	}
}

// reconciled merges a lookup verdict into a target: a failed lookup leaves
// the target in its claimed country.
func reconciled(target types.Target, location iplookup.Location, err error) types.Target {
	if err != nil {
		return target
	}
	return target.WithResolved(location.Country, location.City)
}

// send allows cancelling a blocked target send to avoid leaking goroutines
// in case the consumer is gone.
func send(ctx context.Context, out chan<- types.Target, target types.Target) {
	select {
	case out <- target:
	case <-ctx.Done():
	}
}
