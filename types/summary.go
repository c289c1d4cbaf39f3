// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

// TargetSummary condenses everything a campaign learned about a single
// target: the latency samples of its successful attempts plus the counts of
// what was attempted and what failed. Attempted always equals
// len(Samples)+Failed; a summary with fewer attempts than the campaign's
// configured rounds is still valid, it just means the campaign deadline cut
// the series short.
type TargetSummary struct {
	Target    Target    `json:"target"`
	Samples   []float64 `json:"samples_ms,omitempty"` // successful RTTs in milliseconds, in attempt order
	Attempted int       `json:"attempted"`
	Failed    int       `json:"failed"`
}

// Reachable returns true if at least one attempt got an answer, that is, if
// the summary carries at least one usable latency sample.
func (s TargetSummary) Reachable() bool {
	return len(s.Samples) > 0
}
