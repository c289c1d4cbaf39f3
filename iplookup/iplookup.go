// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package iplookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout limits how long a single geolocation lookup may take unless
// a provider gets configured with its own HTTP client.
const DefaultTimeout = 15 * time.Second

// ErrQuotaExceeded indicates that the provider refused a lookup because the
// request quota is used up.
var ErrQuotaExceeded = errors.New("geolocation provider quota exceeded")

// ErrNotFound indicates that the provider has no geolocation data for an IP
// address, such as for private ranges and bogons.
var ErrNotFound = errors.New("no geolocation data for address")

// Location is what a successful geolocation lookup yields.
type Location struct {
	Country string // ISO 3166-1 alpha-2 code, uppercase.
	City    string // free-form city name; optional.
}

// Resolver looks up the geographic location of IP addresses. Resolver
// implementations must be safe for concurrent use, as the reconciler's
// lookup workers share a single Resolver.
type Resolver interface {
	// Lookup resolves the specified IP address into its geographic
	// location. Lookups the provider answers but cannot usefully serve are
	// reported as [ErrQuotaExceeded] or [ErrNotFound]; anything else
	// surfaces as the underlying transport or provider error.
	Lookup(ctx context.Context, ip string) (Location, error)
}

// NewResolver returns a [Resolver] backed by the named geolocation provider,
// currently either "ipinfo" or "ipapi". Unknown provider names are a
// configuration error. A nil client selects a default HTTP client enforcing
// the DefaultTimeout per lookup.
func NewResolver(provider, token string, client *http.Client) (Resolver, error) {
	switch provider {
	case "ipinfo":
		return &IPInfo{Token: token, Client: client}, nil
	case "ipapi":
		return &IPAPI{Client: client}, nil
	}
	return nil, fmt.Errorf("unknown geolocation provider %q", provider)
}

// defaultClient returns the specified HTTP client, falling back to a
// throw-away client with the DefaultTimeout where no client was configured.
func defaultClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: DefaultTimeout}
}
