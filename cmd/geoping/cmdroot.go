// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/siemens/geoping/iplookup"
	"github.com/siemens/geoping/probe"

	"github.com/spf13/cobra"
)

var (
	catalogDir      *string
	rounds          *uint
	timeout         *time.Duration
	proberNumber    *uint
	lookupNumber    *uint
	deadline        *time.Duration
	proberName      *string
	unprivileged    *bool
	dnsPort         *uint16
	dnsQuery        *string
	providerName    *string
	token           *string
	skipReconcile   *bool
	csvPath         *string
	jsonPath        *string
	correctedPath   *string
	decimalComma    *bool
	quiet           *bool
	noTable         *bool
	spinnerInterval *time.Duration
	debug           *bool
	logFile         *string
	configPath      *string

	// lookupTimeout caps a single geolocation lookup; it can only be changed
	// through a campaign file, not from the command line.
	lookupTimeout time.Duration
)

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:     "geoping [flags]",
		Short:   "geoping measures per-country DNS resolver latencies, cross-checking each resolver's claimed country against its geolocation",
		Version: "0.9",
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if *configPath != "" {
				cfg, err := loadConfig(*configPath)
				if err != nil {
					return err
				}
				applyConfig(cmd, cfg)
			}
			if *rounds < 1 {
				return fmt.Errorf("--rounds must be at least 1")
			}
			if *timeout <= 0 {
				return fmt.Errorf("--timeout must be positive")
			}
			if *proberNumber < 1 {
				return fmt.Errorf("--probers must be at least 1")
			}
			if *lookupNumber < 1 {
				return fmt.Errorf("--lookups must be at least 1")
			}
			if *deadline < 0 {
				return fmt.Errorf("--deadline must not be negative")
			}
			switch *proberName {
			case "icmp", "dns":
			default:
				return fmt.Errorf("unknown prober %q", *proberName)
			}
			switch *providerName {
			case "ipinfo", "ipapi":
			default:
				return fmt.Errorf("unknown geolocation provider %q", *providerName)
			}
			if *spinnerInterval < 10*time.Millisecond {
				return fmt.Errorf("--spinner must be at least 10ms")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging()
			ctx, stop := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()
			return MeasureAndReport(ctx)
		},
	}
	// Sets up the flags.
	catalogDir = rootCmd.PersistentFlags().String(
		"catalog", ".", "directory with per-country resolver catalog files")
	rounds = rootCmd.PersistentFlags().Uint(
		"rounds", 10, "probe attempts per target")
	timeout = rootCmd.PersistentFlags().Duration(
		"timeout", 500*time.Millisecond, "per-attempt reply timeout")
	proberNumber = rootCmd.PersistentFlags().Uint(
		"probers", 64, "maximum number of in-flight probe attempts")
	lookupNumber = rootCmd.PersistentFlags().Uint(
		"lookups", 4, "maximum number of in-flight geolocation lookups")
	deadline = rootCmd.PersistentFlags().Duration(
		"deadline", 0, "overall campaign deadline, 0 disables")
	proberName = rootCmd.PersistentFlags().String(
		"prober", "icmp", "probing method, either \"icmp\" or \"dns\"")
	unprivileged = rootCmd.PersistentFlags().Bool(
		"unprivileged", false, "UDP datagram pings instead of raw ICMP sockets")
	dnsPort = rootCmd.PersistentFlags().Uint16(
		"dns-port", probe.DefaultDNSPort, "resolver port the dns prober queries")
	dnsQuery = rootCmd.PersistentFlags().String(
		"dns-query", probe.DefaultDNSQuery, "name the dns prober queries for")
	providerName = rootCmd.PersistentFlags().String(
		"provider", "ipinfo", "geolocation provider, either \"ipinfo\" or \"ipapi\"")
	token = rootCmd.PersistentFlags().String(
		"token", "", "geolocation provider API token (or set GEOPING_TOKEN)")
	skipReconcile = rootCmd.PersistentFlags().Bool(
		"skip-reconcile", false, "trust claimed countries, skip geolocation lookups")
	csvPath = rootCmd.PersistentFlags().String(
		"csv", "rtt_result.csv", "per-country statistics CSV file, \"\" disables")
	jsonPath = rootCmd.PersistentFlags().String(
		"json", "", "write the full campaign report as JSON to this file")
	correctedPath = rootCmd.PersistentFlags().String(
		"corrected", "", "write the corrected catalog as CSV to this file")
	decimalComma = rootCmd.PersistentFlags().Bool(
		"decimal-comma", false, "tab-separated statistics with decimal commas")
	quiet = rootCmd.PersistentFlags().Bool(
		"quiet", false, "no live progress display")
	noTable = rootCmd.PersistentFlags().Bool(
		"no-table", false, "no statistics table on stdout")
	spinnerInterval = rootCmd.PersistentFlags().Duration(
		"spinner", 100*time.Millisecond, "live display refresh interval")
	debug = rootCmd.PersistentFlags().Bool(
		"debug", false, "enable debugging output")
	logFile = rootCmd.PersistentFlags().String(
		"log-file", "", "route the campaign log into this size-rotated file")
	configPath = rootCmd.PersistentFlags().String(
		"config", "", "TOML campaign file supplying flag defaults")
	lookupTimeout = iplookup.DefaultTimeout
	return
}

// newProber returns the probing method selected on the command line; it is a
// variable for CLI unit tests to short out the real network.
var newProber = func() (probe.Prober, error) {
	switch *proberName {
	case "icmp":
		return &probe.ICMPProber{Timeout: *timeout, Unprivileged: *unprivileged}, nil
	case "dns":
		return &probe.DNSProber{Timeout: *timeout, Port: *dnsPort, Query: *dnsQuery}, nil
	}
	return nil, fmt.Errorf("unknown prober %q", *proberName)
}

// newResolver returns a client for the geolocation provider selected on the
// command line; again a variable for CLI unit tests.
var newResolver = func() (iplookup.Resolver, error) {
	tok := *token
	if tok == "" {
		tok = os.Getenv("GEOPING_TOKEN")
	}
	return iplookup.NewResolver(*providerName, tok,
		&http.Client{Timeout: lookupTimeout})
}
