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

// IPInfoBaseURL is the endpoint of the public ipinfo.io JSON API.
const IPInfoBaseURL = "https://ipinfo.io"

// IPInfo resolves IP addresses using the ipinfo.io JSON API. The zero value
// is a usable anonymous resolver; without a Token it is subject to the
// provider's rather tight anonymous quota.
type IPInfo struct {
	BaseURL string       // provider endpoint; defaults to IPInfoBaseURL.
	Token   string       // optional API token.
	Client  *http.Client // optional HTTP client; defaults to one limited to DefaultTimeout.
}

// Lookup resolves the specified IP address using ipinfo.io. Addresses the
// provider flags as bogons (and addresses without any country information)
// come back as [ErrNotFound], a used-up quota as [ErrQuotaExceeded].
func (r *IPInfo) Lookup(ctx context.Context, ip string) (Location, error) {
	base := r.BaseURL
	if base == "" {
		base = IPInfoBaseURL
	}
	u := base + "/" + url.PathEscape(ip)
	if r.Token != "" {
		u += "?token=" + url.QueryEscape(r.Token)
	}
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
	case resp.StatusCode == http.StatusNotFound:
		return Location{}, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return Location{}, fmt.Errorf("ipinfo.io lookup failed: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Location{}, err
	}
	res := gjson.ParseBytes(body)
	if res.Get("bogon").Bool() {
		return Location{}, ErrNotFound
	}
	country := strings.ToUpper(res.Get("country").String())
	if country == "" {
		return Location{}, ErrNotFound
	}
	return Location{
		Country: country,
		City:    res.Get("city").String(),
	}, nil
}
