// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package stats

import (
	"sort"

	"github.com/siemens/geoping/types"
)

// CountryStats aggregates the latency statistics of all of a country's
// targets. The latency metrics are pointers so that a fully unreachable
// country renders as null rather than as a bogus zero latency.
type CountryStats struct {
	Country     string   `json:"country"`
	MinMs       *float64 `json:"min_ms"`
	MedianMs    *float64 `json:"median_ms"`
	AvgMs       *float64 `json:"avg_ms"`
	MaxMs       *float64 `json:"max_ms"`
	Servers     int      `json:"servers"`     // targets with at least one latency sample.
	Unreachable int      `json:"unreachable"` // targets without any latency sample.
}

// Aggregate folds per-target campaign summaries into per-country latency
// statistics. Targets are grouped by their effective country; within each
// group the minimum, median, average, and maximum are taken over the union
// of all samples of all the group's targets, not per-target. Countries
// whose targets all were unreachable still appear, with null metrics.
//
// The returned statistics are ordered fastest country first (by minimum
// latency), with fully unreachable countries trailing the field; ties and
// the trailing section are ordered by country code.
func Aggregate(summaries []types.TargetSummary) []CountryStats {
	type group struct {
		samples     []float64
		servers     int
		unreachable int
	}
	groups := map[string]*group{}
	for _, summary := range summaries {
		country := summary.Target.EffectiveCountry()
		g := groups[country]
		if g == nil {
			g = &group{}
			groups[country] = g
		}
		if !summary.Reachable() {
			g.unreachable++
			continue
		}
		g.servers++
		g.samples = append(g.samples, summary.Samples...)
	}
	stats := make([]CountryStats, 0, len(groups))
	for country, g := range groups {
		cs := CountryStats{
			Country:     country,
			Servers:     g.servers,
			Unreachable: g.unreachable,
		}
		if len(g.samples) > 0 {
			sorted := append([]float64{}, g.samples...)
			sort.Float64s(sorted)
			cs.MinMs = ms(sorted[0])
			cs.MedianMs = ms(median(sorted))
			cs.AvgMs = ms(mean(sorted))
			cs.MaxMs = ms(sorted[len(sorted)-1])
		}
		stats = append(stats, cs)
	}
	sort.Slice(stats, func(a, b int) bool {
		sa, sb := stats[a], stats[b]
		switch {
		case sa.MinMs == nil && sb.MinMs == nil:
			return sa.Country < sb.Country
		case sa.MinMs == nil:
			return false
		case sb.MinMs == nil:
			return true
		case *sa.MinMs != *sb.MinMs:
			return *sa.MinMs < *sb.MinMs
		}
		return sa.Country < sb.Country
	})
	return stats
}

// median returns the standard median of an already sorted, non-empty sample
// union; for even-sized unions that is the arithmetic mean of the two middle
// values.
func median(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// mean returns the arithmetic mean of a non-empty sample union.
func mean(samples []float64) float64 {
	sum := 0.0
	for _, sample := range samples {
		sum += sample
	}
	return sum / float64(len(samples))
}

// ms returns its argument as a pointer, for the nullable latency metrics.
func ms(v float64) *float64 {
	return &v
}
