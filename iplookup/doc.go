/*
Package iplookup resolves IP addresses into geographic locations using
external geolocation providers.

The [Resolver] capability interface hides which provider actually answers,
so everything downstream (most notably the country reconciler) can be fed a
fake during testing. Two real providers are built in: [IPInfo] using the
ipinfo.io JSON API and [IPAPI] using ip-api.com. Non-transport failures are
normalized into the sentinel errors [ErrQuotaExceeded] and [ErrNotFound], so
callers can distinguish a used-up quota or an unlocatable address from
provider breakage without any provider-specific knowledge.
*/
package iplookup
