// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"time"

	"github.com/siemens/geoping/iplookup"
	"github.com/siemens/geoping/probe"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("the geoping command", func() {

	DescribeTable("rejecting borked campaign configurations",
		func(expected string, args ...string) {
			cmd := newRootCmd()
			cmd.SetOut(GinkgoWriter)
			cmd.SetErr(GinkgoWriter)
			cmd.SetArgs(args)
			Expect(cmd.Execute()).To(MatchError(ContainSubstring(expected)))
		},
		Entry("no rounds", "--rounds must be at least 1", "--rounds", "0"),
		Entry("zero timeout", "--timeout must be positive", "--timeout", "0s"),
		Entry("no probers", "--probers must be at least 1", "--probers", "0"),
		Entry("no lookups", "--lookups must be at least 1", "--lookups", "0"),
		Entry("negative deadline", "--deadline must not be negative", "--deadline", "-1s"),
		Entry("unknown prober", "unknown prober", "--prober", "carrier-pigeon"),
		Entry("unknown provider", "unknown geolocation provider", "--provider", "geoguesser"),
		Entry("hasty spinner", "--spinner must be at least 10ms", "--spinner", "1ms"),
	)

	It("hands out the probing method configured on the command line", func() {
		cmd := newRootCmd()
		Expect(cmd.PersistentFlags().Parse([]string{
			"--prober", "dns", "--dns-port", "5353", "--timeout", "250ms",
		})).To(Succeed())

		prober := Successful(newProber())
		dnsprober := prober.(*probe.DNSProber)
		Expect(dnsprober.Port).To(Equal(uint16(5353)))
		Expect(dnsprober.Timeout).To(Equal(250 * time.Millisecond))
	})

	It("falls back to the GEOPING_TOKEN environment for the provider token", func() {
		_ = newRootCmd()
		GinkgoT().Setenv("GEOPING_TOKEN", "sesame")

		resolver := Successful(newResolver())
		ipinfo := resolver.(*iplookup.IPInfo)
		Expect(ipinfo.Token).To(Equal("sesame"))
		Expect(ipinfo.Client.Timeout).To(Equal(iplookup.DefaultTimeout))
	})

	It("exits non-zero on a borked command line", func() {
		origArgs := os.Args
		origExit := osExit
		DeferCleanup(func() { os.Args = origArgs; osExit = origExit })
		exited := -1
		osExit = func(code int) { exited = code }

		os.Args = []string{"geoping", "--rounds", "0"}
		main()
		Expect(exited).To(Equal(1))
	})

})
