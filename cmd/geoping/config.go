// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/spf13/cobra"
)

// Config holds campaign settings read from an optional TOML campaign file.
// Settings explicitly given on the command line always win over the campaign
// file.
type Config struct {
	Catalog       string   `toml:"catalog"`
	Rounds        uint     `toml:"rounds"`
	Timeout       duration `toml:"timeout"`
	Probers       uint     `toml:"probers"`
	Lookups       uint     `toml:"lookups"`
	Deadline      duration `toml:"deadline"`
	Prober        string   `toml:"prober"`
	Unprivileged  bool     `toml:"unprivileged"`
	DNSPort       uint16   `toml:"dns_port"`
	DNSQuery      string   `toml:"dns_query"`
	Provider      string   `toml:"provider"`
	Token         string   `toml:"token"`
	LookupTimeout duration `toml:"lookup_timeout"`
	CSV           string   `toml:"csv"`
	JSON          string   `toml:"json"`
	Corrected     string   `toml:"corrected"`
	DecimalComma  bool     `toml:"decimal_comma"`
	Quiet         bool     `toml:"quiet"`
	NoTable       bool     `toml:"no_table"`
	Debug         bool     `toml:"debug"`
	LogFile       string   `toml:"log_file"`
}

// duration wraps time.Duration so "500ms"-style TOML values decode.
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return
}

// loadConfig reads campaign settings from the specified TOML file. Unknown
// settings don't fail the campaign, they just get flagged, as they usually
// are typos.
func loadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot read campaign file: %w", err)
	}
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot decode campaign file %q: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		log.Warnf("campaign file %q: unknown setting %q", path, key.String())
	}
	return &cfg, nil
}

// applyConfig folds campaign file settings into the flag values, leaving
// alone all flags explicitly set on the command line.
func applyConfig(cmd *cobra.Command, cfg *Config) {
	flags := cmd.PersistentFlags()
	if !flags.Changed("catalog") && cfg.Catalog != "" {
		*catalogDir = cfg.Catalog
	}
	if !flags.Changed("rounds") && cfg.Rounds != 0 {
		*rounds = cfg.Rounds
	}
	if !flags.Changed("timeout") && cfg.Timeout.Duration != 0 {
		*timeout = cfg.Timeout.Duration
	}
	if !flags.Changed("probers") && cfg.Probers != 0 {
		*proberNumber = cfg.Probers
	}
	if !flags.Changed("lookups") && cfg.Lookups != 0 {
		*lookupNumber = cfg.Lookups
	}
	if !flags.Changed("deadline") && cfg.Deadline.Duration != 0 {
		*deadline = cfg.Deadline.Duration
	}
	if !flags.Changed("prober") && cfg.Prober != "" {
		*proberName = cfg.Prober
	}
	if !flags.Changed("unprivileged") && cfg.Unprivileged {
		*unprivileged = true
	}
	if !flags.Changed("dns-port") && cfg.DNSPort != 0 {
		*dnsPort = cfg.DNSPort
	}
	if !flags.Changed("dns-query") && cfg.DNSQuery != "" {
		*dnsQuery = cfg.DNSQuery
	}
	if !flags.Changed("provider") && cfg.Provider != "" {
		*providerName = cfg.Provider
	}
	if !flags.Changed("token") && cfg.Token != "" {
		*token = cfg.Token
	}
	if cfg.LookupTimeout.Duration > 0 {
		lookupTimeout = cfg.LookupTimeout.Duration
	}
	if !flags.Changed("csv") && cfg.CSV != "" {
		*csvPath = cfg.CSV
	}
	if !flags.Changed("json") && cfg.JSON != "" {
		*jsonPath = cfg.JSON
	}
	if !flags.Changed("corrected") && cfg.Corrected != "" {
		*correctedPath = cfg.Corrected
	}
	if !flags.Changed("decimal-comma") && cfg.DecimalComma {
		*decimalComma = true
	}
	if !flags.Changed("quiet") && cfg.Quiet {
		*quiet = true
	}
	if !flags.Changed("no-table") && cfg.NoTable {
		*noTable = true
	}
	if !flags.Changed("debug") && cfg.Debug {
		*debug = true
	}
	if !flags.Changed("log-file") && cfg.LogFile != "" {
		*logFile = cfg.LogFile
	}
}

// setupLogging configures the campaign log: --debug raises the level and
// --log-file additionally routes the log into a size-rotated file, so
// long-running unattended campaigns don't grow an unbounded log. The live
// progress display owns stdout, so logs always go to stderr instead unless
// rotated into a file.
func setupLogging() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *debug {
		log.SetLevel(log.DebugLevel)
		log.Debugf("debug logging enabled")
	}
	if *logFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   *logFile,
			MaxSize:    10, // MiB
			MaxBackups: 3,
			MaxAge:     28, // days
		})
		return
	}
	log.SetOutput(os.Stderr)
}
