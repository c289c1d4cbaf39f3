// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/siemens/geoping/collect"
)

// renderer renders the live status line of a campaign in flight, based on
// the progress snapshots passed to its Render method.
type renderer struct {
	targets  int // total targets of this campaign.
	attempts int // expected total of probe attempts.
	started  time.Time
	phases   []string
	phase    int
}

// newRenderer returns a renderer for a campaign over the specified number of
// targets with the specified attempt rounds per target.
func newRenderer(targets, rounds int) *renderer {
	phases := []string{}
	for _, r := range "⠉⠘⠰⠤⠆⠃" {
		phases = append(phases, string(r))
	}
	return &renderer{
		targets:  targets,
		attempts: targets * rounds,
		started:  time.Now(),
		phases:   phases,
	}
}

// Render the campaign progress as a single status line, advancing the
// spinner one phase with every redraw.
func (r *renderer) Render(w io.Writer, progress collect.Progress) {
	r.phase = (r.phase + 1) % len(r.phases)
	failed := progress.Attempts - progress.Successes
	fmt.Fprintf(w, "%s %d/%d targets, %d/%d attempts, %s, %s, elapsed %s\n",
		spinnerStyle.Styled(r.phases[r.phase]),
		progress.Targets, r.targets,
		progress.Attempts, r.attempts,
		goodStyle.Styled(fmt.Sprintf("%d replies", progress.Successes)),
		badStyle.Styled(fmt.Sprintf("%d failed", failed)),
		time.Since(r.started).Round(time.Second))
}
