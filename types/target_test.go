// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("catalog targets", func() {

	It("aggregates under the claimed country while unresolved", func() {
		t := Target{IP: "192.0.2.1", ClaimedCountry: "DE"}
		Expect(t.EffectiveCountry()).To(Equal("DE"))
		Expect(t.Corrected()).To(BeFalse())
	})

	It("lets a resolved country override the claim", func() {
		t := Target{IP: "192.0.2.1", ClaimedCountry: "DE", ResolvedCountry: "AT"}
		Expect(t.EffectiveCountry()).To(Equal("AT"))
		Expect(t.Corrected()).To(BeTrue())
	})

	Context("applying geolocation lookups", func() {

		It("records a resolved country only when it differs from the claim", func() {
			t := Target{IP: "192.0.2.1", ClaimedCountry: "DE"}
			Expect(t.WithResolved("AT", "").ResolvedCountry).To(Equal("AT"))
			Expect(t.WithResolved("DE", "").ResolvedCountry).To(BeEmpty())
			Expect(t.WithResolved("", "").ResolvedCountry).To(BeEmpty())
		})

		It("fills in a city only where the catalog didn't annotate one", func() {
			t := Target{IP: "192.0.2.1", ClaimedCountry: "DE"}
			Expect(t.WithResolved("DE", "Berlin").City).To(Equal("Berlin"))

			annotated := Target{IP: "192.0.2.1", City: "Munich", ClaimedCountry: "DE"}
			Expect(annotated.WithResolved("DE", "Berlin").City).To(Equal("Munich"))
		})

		It("never modifies its receiver", func() {
			t := Target{IP: "192.0.2.1", ClaimedCountry: "DE"}
			_ = t.WithResolved("AT", "Vienna")
			Expect(t).To(Equal(Target{IP: "192.0.2.1", ClaimedCountry: "DE"}))
		})

	})

	Context("campaign summaries", func() {

		It("considers a target reachable only with at least one sample", func() {
			Expect(TargetSummary{Attempted: 10, Failed: 10}.Reachable()).To(BeFalse())
			Expect(TargetSummary{
				Samples: []float64{23.5}, Attempted: 10, Failed: 9,
			}.Reachable()).To(BeTrue())
		})

	})

})
