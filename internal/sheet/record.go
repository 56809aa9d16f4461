package sheet

import "maps"

// Raw is a worksheet as produced by the workbook codec: A1-style references
// mapped to scalar values. Numeric cells hold float64, text cells hold string.
type Raw map[string]any

// Record holds the cells of one data row.
type Record struct {
	// Row is the source row number the cells were read from.
	Row   int             `json:"row"`
	Cells map[Address]any `json:"cells"`
}

// NewRecord returns an empty record for row.
func NewRecord(row int) Record {
	return Record{Row: row, Cells: make(map[Address]any)}
}

// Get returns the value stored at a.
func (r Record) Get(a Address) (any, bool) {
	v, ok := r.Cells[a]
	return v, ok
}

// Set stores v at a.
func (r Record) Set(a Address, v any) {
	r.Cells[a] = v
}

// Clone returns a copy of r that shares no map with it.
func (r Record) Clone() Record {
	return Record{Row: r.Row, Cells: maps.Clone(r.Cells)}
}

// Extract converts raw into one record per data row, ordered by row number.
// The header row is skipped and values are passed through unchanged.
func Extract(raw Raw) []Record {
	addrs := SortAddresses(raw)

	var records []Record
	for i := 0; i < len(addrs); {
		row := addrs[i].Row
		j := i
		for j < len(addrs) && addrs[j].Row == row {
			j++
		}
		if row != HeaderRow {
			rec := NewRecord(row)
			for _, a := range addrs[i:j] {
				rec.Cells[a] = raw[a.String()]
			}
			records = append(records, rec)
		}
		i = j
	}

	return records
}

// Project merges the cells of rows over a copy of raw. Cells no record
// touches keep their original value; raw itself is left unmodified.
func Project(rows []Record, raw Raw) Raw {
	out := make(Raw, len(raw))
	maps.Copy(out, raw)
	for _, rec := range rows {
		for a, v := range rec.Cells {
			out[a.String()] = v
		}
	}
	return out
}

// Diff returns the cells of after that are missing from before or hold a
// different value.
func Diff(before, after Raw) Raw {
	changed := make(Raw)
	for key, v := range after {
		old, ok := before[key]
		if !ok || old != v {
			changed[key] = v
		}
	}
	return changed
}
