/*
Package stats turns the per-target summaries of a measurement campaign into
per-country latency statistics.

[Aggregate] is a pure function: it never keeps running totals, but instead
recomputes everything from the complete summary set, so feeding it the same
summaries always yields the same statistics, no matter in which order the
underlying probe verdicts originally arrived.

Countries whose targets all turned out unreachable stay visible in the
aggregated output, with their latency metrics set to null instead of being
silently dropped.
*/
package stats
