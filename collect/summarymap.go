// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package collect

import (
	"context"
	"sort"
	"sync"

	"github.com/siemens/geoping/types"
)

// sample is a single successful latency measurement, remembered together
// with its attempt sequence number so that attempt order can be
// reestablished later no matter in which order verdicts arrived.
type sample struct {
	seq int
	ms  float64
}

// accum accumulates the probing evidence about a single target while a
// campaign is still under way.
type accum struct {
	target  types.Target
	samples []sample
	failed  int
}

// SummaryMap maps targets (keyed by their IP address identity) to the
// probing evidence collected about them. A typical use case is to consume
// attempt verdicts from an event stream (channel) as the probing workers
// decide them, in arbitrary order, and to pull the per-target
// [types.TargetSummary] records after the stream has ended.
type SummaryMap struct {
	mu sync.Mutex
	m  map[string]*accum
}

// NewSummaryMap returns a new and properly initialized SummaryMap.
func NewSummaryMap() *SummaryMap {
	return &SummaryMap{
		m: map[string]*accum{},
	}
}

// Observe registers a target with the map before any of its attempt verdicts
// arrive, so summaries carry the full target information (country, city)
// even for targets that end up without a single verdict. Observing an
// already known target just refreshes its target information, keeping the
// evidence gathered so far.
func (m *SummaryMap) Observe(target types.Target) {
	if target.IP == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.m[target.IP]; ok {
		acc.target = target
		return
	}
	m.m[target.IP] = &accum{target: target}
}

// Update records a single attempt verdict. Verdicts for targets never
// observed beforehand are kept as well, with the target information then
// reduced to the attempt's IP address.
func (m *SummaryMap) Update(attempt types.ProbeAttempt) {
	if attempt.TargetIP == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.m[attempt.TargetIP]
	if !ok {
		acc = &accum{target: types.Target{IP: attempt.TargetIP}}
		m.m[attempt.TargetIP] = acc
	}
	if attempt.Outcome.Succeeded() {
		acc.samples = append(acc.samples, sample{seq: attempt.Seq, ms: attempt.RTTMillis()})
		return
	}
	acc.failed++
}

// Track attempt verdicts received from the specified channel until the
// channel is closed or the context is done. Track only returns after
// processing all verdicts or when the context is done.
func (m *SummaryMap) Track(ctx context.Context, attempts <-chan types.ProbeAttempt) error {
	for {
		select {
		case attempt, ok := <-attempts:
			if !ok {
				return nil
			}
			m.Update(attempt)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Summaries returns the per-target summaries of all evidence gathered so
// far, with each target's latency samples in attempt order and the targets
// themselves ordered by their IP addresses for reproducible output.
func (m *SummaryMap) Summaries() []types.TargetSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	summaries := make([]types.TargetSummary, 0, len(m.m))
	for _, acc := range m.m {
		samples := append([]sample{}, acc.samples...)
		sort.Slice(samples, func(a, b int) bool { return samples[a].seq < samples[b].seq })
		ms := make([]float64, 0, len(samples))
		for _, sample := range samples {
			ms = append(ms, sample.ms)
		}
		summaries = append(summaries, types.TargetSummary{
			Target:    acc.target,
			Samples:   ms,
			Attempted: len(acc.samples) + acc.failed,
			Failed:    acc.failed,
		})
	}
	sort.Slice(summaries, func(a, b int) bool {
		return summaries[a].Target.IP < summaries[b].Target.IP
	})
	return summaries
}

// Progress is a point-in-time snapshot of how far a campaign has come,
// suitable for driving live status displays.
type Progress struct {
	Targets   int // targets known to the map.
	Attempts  int // attempt verdicts recorded so far.
	Successes int // thereof verdicts carrying a latency sample.
}

// Progress returns a snapshot of the campaign progress.
func (m *SummaryMap) Progress() Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := Progress{Targets: len(m.m)}
	for _, acc := range m.m {
		p.Attempts += len(acc.samples) + acc.failed
		p.Successes += len(acc.samples)
	}
	return p
}
