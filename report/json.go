// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/json"
	"io"

	"github.com/siemens/geoping/stats"
	"github.com/siemens/geoping/types"
)

// Report is the complete result of a measurement campaign: the per-country
// latency statistics, plus optionally the campaign's corrected view of all
// its targets.
type Report struct {
	Countries []stats.CountryStats `json:"countries"`
	Targets   []types.Target       `json:"targets,omitempty"`
}

// WriteJSON renders a campaign report as indented JSON. Null latency metrics
// of fully unreachable countries render as JSON null.
func WriteJSON(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
