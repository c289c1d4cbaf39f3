// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"time"

	"github.com/siemens/geoping/types"

	"github.com/go-ping/ping"
)

// ICMPProber measures round-trip times using a single ICMP(v4/v6) echo
// request per probe, the way the classic ping utility does. The zero value
// is not usable; a positive Timeout is required.
//
// By default echo requests are sent through a raw ICMP socket, which
// requires elevated privileges. Set Unprivileged to use UDP datagram-based
// pings instead; on Linux this additionally needs the net.ipv4.ping_group_range
// sysctl to cover the process's group.
type ICMPProber struct {
	Timeout      time.Duration // per-probe time budget
	Unprivileged bool          // use UDP datagram-based pings instead of raw ICMP sockets
}

// Name returns the probing method identifier "icmp".
func (p *ICMPProber) Name() string { return "icmp" }

// Probe sends a single echo request to the specified IP address and waits at
// most the prober's Timeout for the reflection. Please note that passing a
// DNS name instead of an IP address literal works, but then measures
// whatever address the name happens to resolve into.
func (p *ICMPProber) Probe(ctx context.Context, ip string) Result {
	// A quick and non-blocking check to see if the context has been
	// cancelled before we start our work...
	select {
	case <-ctx.Done():
		return Result{Outcome: types.Failure, Err: ctx.Err()}
	default:
	}
	pinger, err := ping.NewPinger(ip)
	if err != nil {
		return Result{Outcome: types.Failure, Err: err}
	}
	pinger.SetPrivileged(!p.Unprivileged)
	pinger.Count = 1
	// Always limit waiting for the single ping to get reflected (or not)!
	pinger.Timeout = p.Timeout
	if err := pinger.Run(); err != nil {
		outcome, err := classify(err)
		return Result{Outcome: outcome, Err: err}
	}
	stats := pinger.Statistics()
	if len(stats.Rtts) == 0 {
		return Result{Outcome: types.Timeout}
	}
	return Result{Outcome: types.Success, RTT: stats.Rtts[0]}
}
