/*
Package report renders aggregated per-country latency statistics: as CSV for
further processing, as an indented JSON report optionally carrying the
corrected targets, and as a styled table for the terminal.

The CSV rendition comes in two dialects: the default comma-separated one with
dot decimals, and a tab-separated one with comma decimals for spreadsheet
locales that expect exactly that. Null metrics of fully unreachable countries
render as empty CSV cells, as JSON null, and as "n/a" in the table.

All renditions keep the order of the statistics given to them, which
[github.com/siemens/geoping/stats.Aggregate] hands out fastest country first.
*/
package report
