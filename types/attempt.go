// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "time"

// ProbeAttempt is the terminal record of a single probe sent to a single
// target. A campaign produces up to the configured number of rounds of
// attempts per target; attempts reference their target by IP address, which
// is the target's identity.
type ProbeAttempt struct {
	TargetIP string        `json:"target_ip"`
	Seq      int           `json:"seq"` // 1-based attempt number within the target's series
	Outcome  Outcome       `json:"outcome"`
	RTT      time.Duration `json:"rtt,omitempty"` // round-trip time; only meaningful for Success
	err      error         // optional failure detail
}

// NewAttempt returns a fresh attempt record. The rtt argument is only
// meaningful for Success outcomes and the err detail only for non-Success
// ones; callers pass the respective zero values otherwise.
func NewAttempt(ip string, seq int, outcome Outcome, rtt time.Duration, err error) ProbeAttempt {
	return ProbeAttempt{
		TargetIP: ip,
		Seq:      seq,
		Outcome:  outcome,
		RTT:      rtt,
		err:      err,
	}
}

// Err returns an optional error detailing why an attempt ended in an
// Unreachable or Failure outcome.
func (a ProbeAttempt) Err() error { return a.err }

// RTTMillis returns the measured round-trip time in (fractional)
// milliseconds, the unit all latency aggregation works in.
func (a ProbeAttempt) RTTMillis() float64 {
	return float64(a.RTT) / float64(time.Millisecond)
}
