// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/siemens/geoping/types"

	"github.com/miekg/dns"
)

// The defaults a DNSProber falls back to for unset fields.
const (
	DefaultDNSPort  = 53
	DefaultDNSQuery = "example.com."
)

// DNSProber measures round-trip times by sending a small DNS query (over
// UDP) to the target's resolver port and timing the answer. Any DNS answer
// counts as a successful probe, regardless of its response code: a REFUSED
// from the resolver proves reachability and measures latency just as well as
// a NOERROR does.
type DNSProber struct {
	Timeout time.Duration // per-probe time budget
	Port    uint16        // resolver port; defaults to DefaultDNSPort
	Query   string        // name to ask for (A record); defaults to DefaultDNSQuery
}

// Name returns the probing method identifier "dns".
func (p *DNSProber) Name() string { return "dns" }

// Probe asks the resolver at the specified IP address for the prober's query
// name and waits at most the prober's Timeout for any answer.
func (p *DNSProber) Probe(ctx context.Context, ip string) Result {
	// A quick and non-blocking check to see if the context has been
	// cancelled before we start our work...
	select {
	case <-ctx.Done():
		return Result{Outcome: types.Failure, Err: ctx.Err()}
	default:
	}
	port := p.Port
	if port == 0 {
		port = DefaultDNSPort
	}
	query := p.Query
	if query == "" {
		query = DefaultDNSQuery
	}
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(query), dns.TypeA)
	client := &dns.Client{Net: "udp", Timeout: p.Timeout}
	_, rtt, err := client.Exchange(m, net.JoinHostPort(ip, strconv.Itoa(int(port))))
	if err != nil {
		outcome, err := classify(err)
		return Result{Outcome: outcome, Err: err}
	}
	return Result{Outcome: types.Success, RTT: rtt}
}
