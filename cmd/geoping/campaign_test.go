// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/siemens/geoping/iplookup"
	"github.com/siemens/geoping/probe"
	"github.com/siemens/geoping/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

// scriptedProber replays canned RTT verdicts per target address, repeating
// the last verdict once a script runs out; addresses without any script
// always time out. An optional delay slows every probe down.
type scriptedProber struct {
	mu    sync.Mutex
	rtts  map[string][]time.Duration
	delay time.Duration
	calls map[string]int
}

func (p *scriptedProber) Name() string { return "scripted" }

func (p *scriptedProber) Probe(ctx context.Context, ip string) probe.Result {
	p.mu.Lock()
	if p.calls == nil {
		p.calls = map[string]int{}
	}
	seq := p.calls[ip]
	p.calls[ip]++
	rtts := p.rtts[ip]
	p.mu.Unlock()
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if len(rtts) == 0 {
		return probe.Result{Outcome: types.Timeout}
	}
	if seq >= len(rtts) {
		seq = len(rtts) - 1
	}
	return probe.Result{Outcome: types.Success, RTT: rtts[seq]}
}

func (p *scriptedProber) probed() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	calls := map[string]int{}
	for ip, count := range p.calls {
		calls[ip] = count
	}
	return calls
}

// scriptedResolver serves canned geolocation verdicts; addresses off the
// script are unlocatable.
type scriptedResolver struct {
	locations map[string]iplookup.Location
}

func (r *scriptedResolver) Lookup(ctx context.Context, ip string) (iplookup.Location, error) {
	if location, ok := r.locations[ip]; ok {
		return location, nil
	}
	return iplookup.Location{}, iplookup.ErrNotFound
}

var _ = Describe("measurement campaigns", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	// fakeNetwork shorts out the real network for the duration of the test,
	// backing the prober and resolver factories with the specified fakes.
	fakeNetwork := func(prober probe.Prober, resolver iplookup.Resolver) {
		GinkgoHelper()
		origProber, origResolver := newProber, newResolver
		DeferCleanup(func() { newProber, newResolver = origProber, origResolver })
		newProber = func() (probe.Prober, error) { return prober, nil }
		newResolver = func() (iplookup.Resolver, error) { return resolver, nil }
	}

	// fakecatalog writes the given per-country catalog files into a fresh
	// throw-away directory and returns its name.
	fakecatalog := func(files map[string]string) string {
		GinkgoHelper()
		dir := GinkgoT().TempDir()
		for name, contents := range files {
			Expect(os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644)).To(Succeed())
		}
		return dir
	}

	It("measures, reconciles, and reports a campaign end to end", NodeTimeout(30*time.Second), func(ctx context.Context) {
		catalogdir := fakecatalog(map[string]string{
			"us.json": `[{"ip":"1.1.1.1"},{"ip":"2.2.2.2"}]`,
			"fr.json": `[{"ip":"3.3.3.3"}]`,
			"zz.json": `[{"ip":"borked"}]`,
		})
		prober := &scriptedProber{rtts: map[string][]time.Duration{
			"1.1.1.1": {10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond},
			"3.3.3.3": {40 * time.Millisecond},
		}}
		fakeNetwork(prober, &scriptedResolver{locations: map[string]iplookup.Location{
			"1.1.1.1": {Country: "US"},
			"2.2.2.2": {Country: "US"},
			"3.3.3.3": {Country: "DE", City: "Berlin"},
		}})

		outdir := GinkgoT().TempDir()
		csvfile := filepath.Join(outdir, "stats.csv")
		jsonfile := filepath.Join(outdir, "report.json")
		correctedfile := filepath.Join(outdir, "corrected.csv")
		cmd := newRootCmd()
		cmd.SetOut(GinkgoWriter)
		cmd.SetErr(GinkgoWriter)
		cmd.SetArgs([]string{
			"--catalog", catalogdir,
			"--rounds", "3",
			"--timeout", "100ms",
			"--probers", "4",
			"--lookups", "2",
			"--csv", csvfile,
			"--json", jsonfile,
			"--corrected", correctedfile,
			"--quiet", "--no-table",
		})
		Expect(cmd.Execute()).To(Succeed())

		By("probing every well-formed target exactly rounds times")
		Expect(prober.probed()).To(Equal(map[string]int{
			"1.1.1.1": 3, "2.2.2.2": 3, "3.3.3.3": 3,
		}), "malformed addresses must never reach the prober")

		By("aggregating per country, reconciled countries winning")
		Expect(string(Successful(os.ReadFile(csvfile)))).To(Equal(
			"country,min_ms,median_ms,avg_ms,max_ms,servers,unreachable\n" +
				"US,10.000,20.000,20.000,30.000,1,1\n" +
				"DE,40.000,40.000,40.000,40.000,1,0\n" +
				"ZZ,,,,,0,1\n"))

		By("reporting the full campaign as JSON")
		Expect(string(Successful(os.ReadFile(jsonfile)))).To(MatchJSON(`{
			"countries": [
				{"country":"US","min_ms":10,"median_ms":20,"avg_ms":20,"max_ms":30,"servers":1,"unreachable":1},
				{"country":"DE","min_ms":40,"median_ms":40,"avg_ms":40,"max_ms":40,"servers":1,"unreachable":0},
				{"country":"ZZ","min_ms":null,"median_ms":null,"avg_ms":null,"max_ms":null,"servers":0,"unreachable":1}
			],
			"targets": [
				{"ip":"1.1.1.1","claimed_country":"US"},
				{"ip":"2.2.2.2","claimed_country":"US"},
				{"ip":"3.3.3.3","city":"Berlin","claimed_country":"FR","resolved_country":"DE"},
				{"ip":"borked","claimed_country":"ZZ"}
			]
		}`))

		By("writing the corrected catalog")
		Expect(string(Successful(os.ReadFile(correctedfile)))).To(Equal(
			"ip,city,claimed_country,resolved_country\n" +
				"1.1.1.1,,US,\n" +
				"2.2.2.2,,US,\n" +
				"3.3.3.3,Berlin,FR,DE\n" +
				"borked,,ZZ,\n"))
	})

	It("renders the original decimal-comma dialect on request", NodeTimeout(30*time.Second), func(ctx context.Context) {
		catalogdir := fakecatalog(map[string]string{
			"us.json": `[{"ip":"1.1.1.1"}]`,
		})
		prober := &scriptedProber{rtts: map[string][]time.Duration{
			"1.1.1.1": {10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond},
		}}
		fakeNetwork(prober, &scriptedResolver{locations: map[string]iplookup.Location{
			"1.1.1.1": {Country: "US"},
		}})

		csvfile := filepath.Join(GinkgoT().TempDir(), "stats.csv")
		cmd := newRootCmd()
		cmd.SetOut(GinkgoWriter)
		cmd.SetErr(GinkgoWriter)
		cmd.SetArgs([]string{
			"--catalog", catalogdir,
			"--rounds", "3",
			"--csv", csvfile,
			"--decimal-comma",
			"--quiet", "--no-table",
		})
		Expect(cmd.Execute()).To(Succeed())

		Expect(string(Successful(os.ReadFile(csvfile)))).To(Equal(
			"country\tmin_ms\tmedian_ms\tavg_ms\tmax_ms\tservers\tunreachable\n" +
				"US\t10,000\t20,000\t20,000\t30,000\t1\t0\n"))
	})

	It("keeps partial evidence when the deadline cuts a campaign short", NodeTimeout(30*time.Second), func(ctx context.Context) {
		catalogdir := fakecatalog(map[string]string{
			"us.json": `[{"ip":"1.1.1.1"}]`,
		})
		prober := &scriptedProber{
			rtts:  map[string][]time.Duration{"1.1.1.1": {10 * time.Millisecond}},
			delay: 50 * time.Millisecond,
		}
		fakeNetwork(prober, nil)

		csvfile := filepath.Join(GinkgoT().TempDir(), "stats.csv")
		cmd := newRootCmd()
		cmd.SetOut(GinkgoWriter)
		cmd.SetErr(GinkgoWriter)
		cmd.SetArgs([]string{
			"--catalog", catalogdir,
			"--rounds", "50",
			"--probers", "1",
			"--deadline", "200ms",
			"--skip-reconcile",
			"--csv", csvfile,
			"--quiet", "--no-table",
		})
		Expect(cmd.Execute()).To(Succeed())

		probed := prober.probed()["1.1.1.1"]
		Expect(probed).To(BeNumerically(">", 0))
		Expect(probed).To(BeNumerically("<", 50), "no new attempts past the deadline")
		Expect(string(Successful(os.ReadFile(csvfile)))).To(
			ContainSubstring("\nUS,10.000,"), "evidence gathered before the deadline must survive")
	})

})
