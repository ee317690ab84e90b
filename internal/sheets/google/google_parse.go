package google

import (
	"fmt"
	"strings"

	"finanzas/internal/core"
)

// valuesToRows converts a values matrix (as returned by the Sheets API)
// into raw rows keyed by the first row's headers. Short rows are padded
// with empty cells; rows longer than the header are truncated.
func valuesToRows(values [][]interface{}) []core.RawRow {
	if len(values) == 0 {
		return []core.RawRow{}
	}
	headers := toStrings(values[0])
	rows := make([]core.RawRow, 0, len(values)-1)
	for _, rv := range values[1:] {
		cells := toStrings(rv)
		row := make(core.RawRow, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// recordsToValues serializes records into a header row followed by the
// canonical persisted cells.
func recordsToValues(records []core.ExpenseRecord) [][]interface{} {
	values := make([][]interface{}, 0, len(records)+1)

	header := make([]interface{}, len(core.PersistedHeader))
	for i, h := range core.PersistedHeader {
		header[i] = h
	}
	values = append(values, header)

	for _, rec := range records {
		cells := rec.PersistedRow()
		rv := make([]interface{}, len(cells))
		for i, cell := range cells {
			rv[i] = cell
		}
		values = append(values, rv)
	}
	return values
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
