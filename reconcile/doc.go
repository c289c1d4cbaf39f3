/*
Package reconcile cross-checks the countries the catalog claims its targets
to be located in against an independent geolocation provider, reassigning
targets whose claim turns out to be wrong.

A [Reconciler] consumes a stream of targets and emits every single one of
them again, corrected where necessary, with lookups running on a
goroutine-limited worker pool (geolocation providers enforce quotas far
below what the probing stage could stomach, so the reconciler gets its own,
much smaller ceiling). Lookup results are cached per IP address for the
lifetime of the Reconciler, so an address is looked up at most once no
matter how often it appears in the catalog; targets arriving while “their”
lookup is already under way are parked and then served the moment the
verdict lands.

Lookup failures are not fatal: the affected target simply stays in its
claimed country and the failure is logged as a warning.
*/
package reconcile
