// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"

	"github.com/siemens/geoping/stats"

	"github.com/muesli/termenv"
	"github.com/rodaine/table"
)

var (
	headerStyle  = termenv.Style{}.Bold()
	countryStyle = termenv.Style{}.Bold()
)

// Fprint renders per-country latency statistics as a terminal table, with
// "n/a" marking the null metrics of fully unreachable countries.
func Fprint(w io.Writer, countries []stats.CountryStats) {
	tbl := table.New("Country", "Min", "Median", "Avg", "Max", "Servers", "Unreachable").
		WithWriter(w).
		WithHeaderFormatter(func(format string, vals ...interface{}) string {
			return headerStyle.Styled(fmt.Sprintf(format, vals...))
		}).
		WithFirstColumnFormatter(func(format string, vals ...interface{}) string {
			return countryStyle.Styled(fmt.Sprintf(format, vals...))
		})
	for _, country := range countries {
		tbl.AddRow(
			country.Country,
			tableMs(country.MinMs),
			tableMs(country.MedianMs),
			tableMs(country.AvgMs),
			tableMs(country.MaxMs),
			country.Servers,
			country.Unreachable,
		)
	}
	tbl.Print()
}

// tableMs renders a nullable latency metric for table display.
func tableMs(ms *float64) string {
	if ms == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.3fms", *ms)
}
