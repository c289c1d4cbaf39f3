// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"

	"github.com/siemens/geoping/types"
)

// Prober sends a single probe to an IP address and classifies what came
// back. Prober implementations must be safe for concurrent use, as a
// [Scheduler] invokes a single Prober from all of its worker goroutines.
type Prober interface {
	// Probe sends one probe to the given IP address literal and waits for
	// the answer within the prober's time budget. Cancelling the context
	// only keeps a probe from starting; a probe already under way runs to
	// its natural conclusion or timeout.
	Probe(ctx context.Context, ip string) Result
	// Name identifies the probing method, for logging.
	Name() string
}

// Result is the classified verdict of a single probe.
type Result struct {
	Outcome types.Outcome
	RTT     time.Duration // round-trip time; only meaningful for Success
	Err     error         // optional detail for Unreachable and Failure verdicts
}

// classify maps a transport error onto the probe outcome taxonomy: errors in
// which the network path itself reports unreachability (including a refused
// resolver port) become Unreachable, expired I/O deadlines become Timeout,
// and anything else is an unspecific Failure.
func classify(err error) (types.Outcome, error) {
	switch {
	case errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ECONNREFUSED):
		return types.Unreachable, err
	}
	var neterr net.Error
	if errors.As(err, &neterr) && neterr.Timeout() {
		return types.Timeout, err
	}
	return types.Failure, err
}
