// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Outcome classifies how a single probe attempt ended. Every attempt ends in
// exactly one terminal outcome; there is no pending state, as attempt records
// get emitted only after their verdict is in.
type Outcome int

// The terminal outcomes of a probe attempt. Failure deliberately is the zero
// value so that an uninitialized attempt never masquerades as a measurement.
const (
	Failure     Outcome = iota // probe failed for reasons other than the network path.
	Timeout                    // no answer within the per-attempt time budget.
	Unreachable                // the network path itself reported unreachability.
	Success                    // answer received, round-trip time measured.
)

// String returns the clear-text representation of an Outcome value.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Timeout:
		return "timeout"
	case Unreachable:
		return "unreachable"
	case Failure:
		return "failure"
	}
	return fmt.Sprintf("Outcome(%d)", o)
}

// Succeeded returns true if the probe got an answer, so its round-trip time
// is a usable latency sample.
func (o Outcome) Succeeded() bool {
	return o == Success
}
