/*
Package collect gathers the probe attempt verdicts of a whole measurement
campaign and condenses them into per-target summaries.

A [SummaryMap] consumes attempt verdicts from an event stream (channel) in
whatever order the probing workers happen to decide them; attempt order gets
reestablished from the attempt sequence numbers only when the final
summaries are pulled. The summaries are therefore independent of verdict
arrival order by construction.
*/
package collect
