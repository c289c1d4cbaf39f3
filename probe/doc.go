/*
Package probe measures the round-trip times of probing targets by sending
each of them a configurable number of individual probes through a
goroutine-limited worker pool.

A [Scheduler] accepts targets (either individually or as a stream) and fans
their probe attempts out onto the pool; attempt verdicts are streamed to the
scheduler's attempt channel as they are decided, without any ordering
guarantees between targets or even between the attempts of a single target.
Consumers that need the original attempt order sort by attempt sequence
number afterwards.

The actual probing is pluggable through the [Prober] interface: [ICMPProber]
measures with ICMP echo requests like the venerable ping utility, while
[DNSProber] times a real DNS query against the target's resolver port, which
probes exactly the service whose latency is of interest and also works where
ICMP gets filtered.
*/
package probe
