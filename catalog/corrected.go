// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package catalog

import (
	"encoding/csv"
	"io"

	"github.com/siemens/geoping/types"
)

// WriteCorrected writes the campaign's corrected view of the catalog as CSV,
// one row per target in the order given. The resolved_country column is
// filled in only where reconciliation actually moved a target to a different
// country; backfilled city names simply appear in the city column.
func WriteCorrected(w io.Writer, targets []types.Target) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"ip", "city", "claimed_country", "resolved_country"}); err != nil {
		return err
	}
	for _, target := range targets {
		record := []string{
			target.IP,
			target.City,
			target.ClaimedCountry,
			target.ResolvedCountry,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}
