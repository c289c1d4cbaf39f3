// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/siemens/geoping/catalog"
	"github.com/siemens/geoping/collect"
	"github.com/siemens/geoping/iplookup"
	"github.com/siemens/geoping/probe"
	"github.com/siemens/geoping/reconcile"
	"github.com/siemens/geoping/report"
	"github.com/siemens/geoping/stats"
	"github.com/siemens/geoping/types"

	"github.com/gosuri/uilive"
	log "github.com/sirupsen/logrus"
)

// A campaign bundles the moving parts of one measurement run.
type campaign struct {
	rounds   int               // probe attempts per target.
	probers  int               // maximum in-flight probe attempts.
	lookups  int               // maximum in-flight geolocation lookups.
	prober   probe.Prober      // the probing method.
	resolver iplookup.Resolver // nil trusts the claimed countries.
}

// MeasureAndReport runs one complete measurement campaign as configured on
// the command line: load the resolver catalog, reconcile the claimed
// countries against geolocation lookups, probe every resolver, and finally
// render the per-country latency statistics.
func MeasureAndReport(ctx context.Context) error {
	start := time.Now()
	targets, err := catalog.Load(*catalogDir)
	if err != nil {
		return err
	}
	claimed := map[string]struct{}{}
	for _, target := range targets {
		claimed[target.ClaimedCountry] = struct{}{}
	}
	log.Infof("catalog claims %d resolvers in %d countries", len(targets), len(claimed))

	prober, err := newProber()
	if err != nil {
		return err
	}
	c := campaign{
		rounds:  int(*rounds),
		probers: int(*proberNumber),
		lookups: int(*lookupNumber),
		prober:  prober,
	}
	if *skipReconcile {
		log.Info("trusting claimed countries, skipping geolocation lookups")
	} else {
		resolver, err := newResolver()
		if err != nil {
			return err
		}
		c.resolver = resolver
	}
	if *deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *deadline)
		defer cancel()
	}

	summaries := collect.NewSummaryMap()

	// The live display redraws on its own schedule from progress snapshots
	// until measuring is done, then renders one final, complete state.
	// uilive's background flushing mode would race our rendering, so all
	// flushes are explicit, after a completed rendering only.
	measuringDone := make(chan struct{})
	renderingDone := make(chan struct{})
	if *quiet {
		close(renderingDone)
	} else {
		go func() {
			term := uilive.New()
			renderer := newRenderer(len(targets), c.rounds)
			defer func() {
				renderer.Render(term, summaries.Progress())
				term.Flush()
				close(renderingDone)
			}()
			ticker := time.NewTicker(*spinnerInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					renderer.Render(term, summaries.Progress())
					term.Flush()
				case <-measuringDone:
					return
				}
			}
		}()
	}

	c.measure(ctx, summaries, targets)
	close(measuringDone)
	<-renderingDone

	evidence := summaries.Summaries()
	countries := stats.Aggregate(evidence)
	corrected := make([]types.Target, 0, len(evidence))
	for _, summary := range evidence {
		corrected = append(corrected, summary.Target)
	}
	if err := emit(countries, corrected); err != nil {
		return err
	}
	log.Infof("campaign finished after %s", time.Since(start).Round(time.Millisecond))
	return nil
}

// measure probes all specified targets, first passing them through country
// reconciliation unless configured otherwise, and folds every attempt
// verdict into the specified summary map. It returns only after the last
// verdict is in. Cancelling the context stops issuing new lookups and probe
// attempts; the evidence gathered up to then stays valid.
func (c campaign) measure(ctx context.Context, summaries *collect.SummaryMap, targets []types.Target) {
	log.Infof("probing with at most %d in-flight %q probes, %d attempts per target",
		c.probers, c.prober.Name(), c.rounds)
	reconciled := c.reconcileStage(ctx, targets)
	scheduler, attempts := probe.New(c.probers, c.prober, probe.WithRounds(uint(c.rounds)))

	// Targets leave reconciliation with their final countries, so register
	// each one with the summary map right before its first probes get
	// issued; never-answering targets then still end up fully attributed in
	// the final report.
	go func() {
		for target := range reconciled {
			summaries.Observe(target)
			scheduler.Schedule(ctx, target)
		}
		scheduler.StopWait()
	}()

	// Drain the verdict stream until the scheduler closes it: in-flight
	// attempts still deliver their verdicts after a deadline cut the
	// campaign short, so draining must not be tied to the campaign context.
	_ = summaries.Track(context.Background(), attempts)
}

// reconcileStage returns the stream of targets leaving country
// reconciliation; without a resolver the catalog passes through unchanged.
func (c campaign) reconcileStage(ctx context.Context, targets []types.Target) <-chan types.Target {
	if c.resolver == nil {
		out := make(chan types.Target)
		go func() {
			defer close(out)
			for _, target := range targets {
				select {
				case out <- target:
				case <-ctx.Done():
					return
				}
			}
		}()
		return out
	}
	log.Infof("reconciling claimed countries, at most %d in-flight lookups", c.lookups)
	reconciler, reconciled := reconcile.New(c.lookups, c.resolver)
	go func() {
		for _, target := range targets {
			reconciler.Reconcile(ctx, target)
		}
		reconciler.StopWait()
	}()
	return reconciled
}

// emit renders the campaign results into the configured outputs.
func emit(countries []stats.CountryStats, corrected []types.Target) error {
	if *csvPath != "" {
		dialect := report.WriteCSV
		if *decimalComma {
			dialect = report.WriteTSV
		}
		if err := writeFile(*csvPath, func(w io.Writer) error {
			return dialect(w, countries)
		}); err != nil {
			return err
		}
		log.Infof("per-country statistics written to %q", *csvPath)
	}
	if *jsonPath != "" {
		if err := writeFile(*jsonPath, func(w io.Writer) error {
			return report.WriteJSON(w, report.Report{Countries: countries, Targets: corrected})
		}); err != nil {
			return err
		}
		log.Infof("campaign report written to %q", *jsonPath)
	}
	if *correctedPath != "" {
		if err := writeFile(*correctedPath, func(w io.Writer) error {
			return catalog.WriteCorrected(w, corrected)
		}); err != nil {
			return err
		}
		log.Infof("corrected catalog written to %q", *correctedPath)
	}
	if !*noTable {
		report.Fprint(os.Stdout, countries)
	}
	return nil
}

// writeFile creates the named file and hands it to render, propagating
// whichever error hits first.
func writeFile(name string, render func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %q: %w", name, err)
	}
	return f.Close()
}
