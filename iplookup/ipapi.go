// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package iplookup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// IPAPIBaseURL is the endpoint of the free ip-api.com JSON API. Plain HTTP,
// as the provider reserves TLS for paying customers.
const IPAPIBaseURL = "http://ip-api.com"

// IPAPI resolves IP addresses using the ip-api.com JSON API. The zero value
// is a usable resolver; the provider needs no token, but rate-limits by
// client address instead.
type IPAPI struct {
	BaseURL string       // provider endpoint; defaults to IPAPIBaseURL.
	Client  *http.Client // optional HTTP client; defaults to one limited to DefaultTimeout.
}

// Lookup resolves the specified IP address using ip-api.com. The provider
// signals lookup failures with a successful HTTP status and a "fail" status
// in the JSON answer; unlocatable addresses (private and reserved ranges,
// garbage queries) come back as [ErrNotFound], exceeding the provider's rate
// limit as [ErrQuotaExceeded].
func (r *IPAPI) Lookup(ctx context.Context, ip string) (Location, error) {
	base := r.BaseURL
	if base == "" {
		base = IPAPIBaseURL
	}
	u := base + "/json/" + url.PathEscape(ip) + "?fields=status,message,countryCode,city"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Location{}, err
	}
	resp, err := defaultClient(r.Client).Do(req)
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return Location{}, ErrQuotaExceeded
	case resp.StatusCode != http.StatusOK:
		return Location{}, fmt.Errorf("ip-api.com lookup failed: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Location{}, err
	}
	res := gjson.ParseBytes(body)
	if res.Get("status").String() != "success" {
		switch res.Get("message").String() {
		case "private range", "reserved range", "invalid query":
			return Location{}, ErrNotFound
		}
		return Location{}, fmt.Errorf("ip-api.com lookup failed: %q",
			res.Get("message").String())
	}
	country := strings.ToUpper(res.Get("countryCode").String())
	if country == "" {
		return Location{}, ErrNotFound
	}
	return Location{
		Country: country,
		City:    res.Get("city").String(),
	}, nil
}
