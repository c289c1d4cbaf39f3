// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/siemens/geoping/types"

	"github.com/gammazero/workerpool"
)

// Scheduler turns probing targets into streams of per-probe attempt verdicts
// ([types.ProbeAttempt]). Each target gets a fixed number of probe attempts
// (its “rounds”), with every single attempt being a separate job on a
// goroutine-limited worker pool, so a slow target never stalls the campaign
// beyond occupying at most a worker per in-flight attempt.
type Scheduler struct {
	rounds   int                     // number of probe attempts per target.
	prober   Prober                  // the probing method doing the real work.
	workers  *workerpool.WorkerPool  // attempt workers running probes concurrently.
	attempts chan types.ProbeAttempt // attempt verdict stream channel.
	stopOnce sync.Once
}

// SchedulerOption can be passed to New when creating new Scheduler objects.
type SchedulerOption func(*Scheduler)

// New returns a new [Scheduler] with a maximum worker pool of the specified
// size, as well as the “attempt stream” delivering the verdict of every
// single probe attempt as soon as it is in. A scheduler defaults to a single
// probing round per target; see [WithRounds].
func New(size int, prober Prober, options ...SchedulerOption) (*Scheduler, <-chan types.ProbeAttempt) {
	attempts := make(chan types.ProbeAttempt, size)
	s := &Scheduler{
		rounds:   1,
		prober:   prober,
		workers:  workerpool.New(size),
		attempts: attempts,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, attempts
}

// WithRounds sets the number of probe attempts the scheduler issues per
// target.
func WithRounds(rounds uint) SchedulerOption {
	if rounds < 1 {
		panic(fmt.Errorf("Scheduler: at least one probing round required, got: %d", rounds))
	}
	return func(s *Scheduler) {
		s.rounds = int(rounds)
	}
}

// ScheduleStream reads targets to be probed from a channel until the channel
// is closed or the specified context gets cancelled. It does not return
// until then, so callers typically run ScheduleStream in a separate
// goroutine.
//
// Once the context is done no new probe attempts get issued anymore; see
// [Scheduler.Schedule] for the fate of attempts already in flight.
func (s *Scheduler) ScheduleStream(ctx context.Context, ch <-chan types.Target) {
	for {
		select {
		case target, ok := <-ch:
			if !ok {
				return
			}
			s.Schedule(ctx, target)
		case <-ctx.Done():
			return
		}
	}
}

// Schedule issues the scheduler's configured number of probe attempts for
// the specified target. The attempt verdicts are then sent to the channel
// returned together with the newly created [Scheduler], in whatever order
// they happen to be decided.
//
// A target whose IP address doesn't even parse never hits the network:
// Schedule instead immediately synthesizes the full series of attempt
// verdicts with Failure outcomes, so such targets still show up properly
// attributed in the final report.
//
// If the specified context gets cancelled, attempts not yet started won't be
// issued anymore and won't be echoed to the attempt stream at all. Attempts
// already under way run to their natural conclusion or timeout; their
// verdicts are delivered on a best-effort basis, as the order of verdict
// sending and context cancellation detection is uncontrollable.
func (s *Scheduler) Schedule(ctx context.Context, target types.Target) {
	if net.ParseIP(target.IP) == nil {
		err := fmt.Errorf("malformed target address %q", target.IP)
		for seq := 1; seq <= s.rounds; seq++ {
			select {
			case s.attempts <- types.NewAttempt(target.IP, seq, types.Failure, 0, err):
			case <-ctx.Done():
				return
			}
		}
		return
	}
	for seq := 1; seq <= s.rounds; seq++ {
		seq := seq
		s.workers.Submit(func() {
			// A quick and non-blocking check to see if the context has been
			// cancelled while this attempt was still queued...
			select {
			case <-ctx.Done():
				return
			default:
			}
			verdict := s.prober.Probe(ctx, target.IP)
			// Allow cancelling a blocked attempt verdict send to avoid
			// leaking goroutines in case the consumer is gone.
			select {
			case s.attempts <- types.NewAttempt(target.IP, seq, verdict.Outcome, verdict.RTT, verdict.Err):
			case <-ctx.Done():
			}
		})
	}
}

// StopWait waits for all queued probe attempts to get processed and then
// finally closes the attempt stream channel.
func (s *Scheduler) StopWait() {
	s.stopOnce.Do(func() {
		s.workers.StopWait()
		close(s.attempts)
	})
}
