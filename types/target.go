// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

// Target represents a single resolver from the input catalog: an IP address
// together with the country the catalog claims it to be located in. The IP
// address is the target's identity; the catalog loader guarantees it to be
// unique within a campaign.
type Target struct {
	IP              string `json:"ip"`                         // IPv4/IPv6 address literal
	City            string `json:"city,omitempty"`             // optional city annotation
	ClaimedCountry  string `json:"claimed_country"`            // ISO 3166-1 alpha-2, from the catalog
	ResolvedCountry string `json:"resolved_country,omitempty"` // set only when geolocation disagrees
}

// EffectiveCountry returns the country code this target gets aggregated
// under: the resolved country where reconciliation found the catalog claim
// to be wrong, and the claimed country everywhere else.
func (t Target) EffectiveCountry() string {
	if t.ResolvedCountry != "" {
		return t.ResolvedCountry
	}
	return t.ClaimedCountry
}

// Corrected returns true if reconciliation moved this target to a country
// different from the one the catalog claimed.
func (t Target) Corrected() bool {
	return t.ResolvedCountry != ""
}

// WithResolved returns a copy of the target updated with the outcome of a
// geolocation lookup. The resolved country is recorded only when it is
// non-empty and actually differs from the catalog claim; a confirming lookup
// thus leaves the target's country untouched. A city is only filled in where
// the catalog didn't annotate one.
func (t Target) WithResolved(country, city string) Target {
	if country != "" && country != t.ClaimedCountry {
		t.ResolvedCountry = country
	}
	if t.City == "" {
		t.City = city
	}
	return t
}
