// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/siemens/geoping/stats"
)

// statsHeader is the fixed column order of the per-country CSV renditions.
var statsHeader = []string{
	"country", "min_ms", "median_ms", "avg_ms", "max_ms", "servers", "unreachable",
}

// WriteCSV renders per-country latency statistics as comma-separated values,
// latencies in milliseconds with three dot-decimals. The metrics of fully
// unreachable countries render as empty cells.
func WriteCSV(w io.Writer, countries []stats.CountryStats) error {
	return writeStats(w, countries, ',', '.')
}

// WriteTSV renders per-country latency statistics tab-separated and with
// comma decimals, the dialect spreadsheets in many European locales ingest
// without any import dialog fuss.
func WriteTSV(w io.Writer, countries []stats.CountryStats) error {
	return writeStats(w, countries, '\t', ',')
}

func writeStats(w io.Writer, countries []stats.CountryStats, comma rune, decimal rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = comma
	defer writer.Flush()
	if err := writer.Write(statsHeader); err != nil {
		return err
	}
	for _, country := range countries {
		record := []string{
			country.Country,
			formatMs(country.MinMs, decimal),
			formatMs(country.MedianMs, decimal),
			formatMs(country.AvgMs, decimal),
			formatMs(country.MaxMs, decimal),
			strconv.Itoa(country.Servers),
			strconv.Itoa(country.Unreachable),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

// formatMs renders a nullable latency metric with three decimals and the
// specified decimal separator; null metrics render as empty cells.
func formatMs(ms *float64, decimal rune) string {
	if ms == nil {
		return ""
	}
	s := strconv.FormatFloat(*ms, 'f', 3, 64)
	if decimal != '.' {
		s = strings.ReplaceAll(s, ".", string(decimal))
	}
	return s
}
