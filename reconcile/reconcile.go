// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package reconcile

import (
	"context"
	"sync"

	"github.com/siemens/geoping/iplookup"
	"github.com/siemens/geoping/types"

	"github.com/gammazero/workerpool"
	log "github.com/sirupsen/logrus"
)

// Reconciler reconciles the claimed countries of a stream of targets against
// an external geolocation provider, emitting every target again, corrected
// where the provider disagrees with the catalog. Reconcilers use a
// goroutine-limited worker pool for the lookups and cache lookup verdicts by
// IP address, so no address is ever looked up twice.
type Reconciler struct {
	resolver iplookup.Resolver      // the geolocation provider abstraction.
	workers  *workerpool.WorkerPool // lookup workers honoring the provider's much lower ceiling.
	out      chan types.Target      // reconciled target stream channel.
	cache    *lookupCache           // at most one lookup per address, ever.
	stopOnce sync.Once
}

// New returns a new [Reconciler] with a maximum lookup worker pool of the
// specified size, together with the stream of reconciled targets. Every
// target put in comes out again exactly once, reconciled as well as
// possible; targets whose lookup fails simply keep their claimed country.
func New(size int, resolver iplookup.Resolver) (*Reconciler, <-chan types.Target) {
	out := make(chan types.Target, size)
	return &Reconciler{
		resolver: resolver,
		workers:  workerpool.New(size),
		out:      out,
		cache:    newLookupCache(),
	}, out
}

// ReconcileStream reads targets from a channel until the channel is closed
// or the specified context gets cancelled. It does not return until then, so
// callers typically run ReconcileStream in a separate goroutine, followed by
// [Reconciler.StopWait].
func (r *Reconciler) ReconcileStream(ctx context.Context, ch <-chan types.Target) {
	for {
		select {
		case target, ok := <-ch:
			if !ok {
				return
			}
			r.Reconcile(ctx, target)
		case <-ctx.Done():
			return
		}
	}
}

// Reconcile cross-checks a single target's claimed country, emitting the
// (possibly corrected) target to the channel returned together with the
// newly created [Reconciler]. The first target with a particular IP address
// triggers the actual lookup; any further targets with the same address are
// served from the cache without consuming provider quota.
func (r *Reconciler) Reconcile(ctx context.Context, target types.Target) {
	if target.IP == "" {
		send(ctx, r.out, target)
		return
	}
	if !r.cache.update(ctx, target, r.out) {
		return
	}
	r.workers.Submit(func() {
		location, err := r.lookup(ctx, target.IP)
		r.cache.resolve(ctx, target.IP, location, err, r.out)
	})
}

// lookup asks the geolocation provider for the location of the specified IP
// address, unless the campaign is already winding down; no need to burn
// provider quota on lookups nobody will wait for anymore.
func (r *Reconciler) lookup(ctx context.Context, ip string) (iplookup.Location, error) {
	if err := ctx.Err(); err != nil {
		return iplookup.Location{}, err
	}
	location, err := r.resolver.Lookup(ctx, ip)
	if err != nil {
		log.Warnf("geolocation for %s unavailable, keeping claimed country: %v", ip, err)
		return iplookup.Location{}, err
	}
	return location, nil
}

// StopWait waits for all queued lookups to get processed and then finally
// closes the reconciled target stream channel.
func (r *Reconciler) StopWait() {
	r.stopOnce.Do(func() {
		r.workers.StopWait()
		close(r.out)
	})
}
