/*
Package types defines geoping's information model. It revolves around the
probing [Target] (a resolver address taken from a country catalog), the
[ProbeAttempt] records produced while measuring targets, with their
[Outcome], and the per-target [TargetSummary] that a whole measurement
campaign finally boils down to.

# Design Rationale

geoping is inherently concurrent: targets travel from the reconciler into
the prober pool and attempt records travel from many prober goroutines into
the collector, all through channels. All model types here are therefore
plain values: what goes into a channel is a copy, and updates never happen
in place. [Target.WithResolved] returns an updated copy and leaves its
receiver alone, mirroring how attempt records are created once and then
only ever read. This buys us immutability without a locking mess and
without tons of subtle aliasing bugs.

The price to pay is that slice-carrying values ([TargetSummary]) cannot
enforce deep immutability; by convention their slices are frozen once the
value has been handed out.
*/
package types
