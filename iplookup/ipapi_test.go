// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package iplookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

var _ = Describe("ip-api.com resolver", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	fakeipapi := func(handler http.HandlerFunc) *IPAPI {
		srv := httptest.NewServer(handler)
		DeferCleanup(func() { srv.Close() })
		return &IPAPI{BaseURL: srv.URL, Client: srv.Client()}
	}

	It("resolves an address into country and city", NodeTimeout(30*time.Second), func(ctx context.Context) {
		resolver := fakeipapi(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Path).To(Equal("/json/9.9.9.9"))
			Expect(r.URL.Query().Get("fields")).To(ContainSubstring("countryCode"))
			w.Write([]byte(`{"status":"success","countryCode":"CH","city":"Zurich"}`))
		})

		location := Successful(resolver.Lookup(ctx, "9.9.9.9"))
		Expect(location).To(Equal(Location{Country: "CH", City: "Zurich"}))
	})

	DescribeTable("reporting unlocatable addresses",
		func(message string) {
			resolver := fakeipapi(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status":"fail","message":"` + message + `"}`))
			})
			_, err := resolver.Lookup(context.Background(), "192.168.0.1")
			Expect(err).To(MatchError(ErrNotFound))
		},
		Entry("private range", "private range"),
		Entry("reserved range", "reserved range"),
		Entry("invalid query", "invalid query"),
	)

	It("reports a used-up quota", NodeTimeout(30*time.Second), func(ctx context.Context) {
		resolver := fakeipapi(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := resolver.Lookup(ctx, "9.9.9.9")
		Expect(err).To(MatchError(ErrQuotaExceeded))
	})

	It("surfaces other provider failures verbatim", NodeTimeout(30*time.Second), func(ctx context.Context) {
		resolver := fakeipapi(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"fail","message":"SSL unavailable for this endpoint"}`))
		})

		_, err := resolver.Lookup(ctx, "9.9.9.9")
		Expect(err).To(MatchError(ContainSubstring("SSL unavailable")))
	})

})

var _ = Describe("resolver factory", func() {

	It("hands out the provider asked for", func() {
		Expect(NewResolver("ipinfo", "sesame", nil)).To(BeAssignableToTypeOf(&IPInfo{}))
		Expect(NewResolver("ipapi", "", nil)).To(BeAssignableToTypeOf(&IPAPI{}))
	})

	It("hands the HTTP client through to the provider", func() {
		client := &http.Client{Timeout: time.Second}
		resolver := Successful(NewResolver("ipinfo", "", client))
		Expect(resolver.(*IPInfo).Client).To(BeIdenticalTo(client))
	})

	It("rejects unknown providers", func() {
		_, err := NewResolver("geoguesser", "", nil)
		Expect(err).To(MatchError(ContainSubstring("unknown geolocation provider")))
	})

})
