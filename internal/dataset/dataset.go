package dataset

import (
	"sort"
)

// Package dataset holds the in-memory tabular representation built from an
// uploaded payload. A Dataset is constructed once per request, is immutable
// for the lifetime of the analysis pipeline, and is discarded with the
// response.
//
// Cleaning rules applied at construction:
//   - list- and object-valued fields are dropped (scalars only)
//   - rows with zero surviving fields are dropped
//   - the column set is the union of all row keys; absent keys read as nil
//
// Column typing is implicit: a column is numeric when the strict majority of
// its non-null values are numbers.

// Dataset is an ordered sequence of rows sharing one column set.
type Dataset struct {
	columns []string
	rows    []map[string]interface{}
}

// FromRows builds a Dataset from decoded JSON row objects.
func FromRows(raw []map[string]interface{}) *Dataset {
	colSet := make(map[string]struct{})
	rows := make([]map[string]interface{}, 0, len(raw))

	for _, in := range raw {
		row := make(map[string]interface{}, len(in))
		for k, v := range in {
			if !isScalar(v) {
				continue
			}
			row[k] = v
		}
		if len(row) == 0 {
			continue
		}
		for k := range row {
			colSet[k] = struct{}{}
		}
		rows = append(rows, row)
	}

	columns := make([]string, 0, len(colSet))
	for c := range colSet {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	return &Dataset{columns: columns, rows: rows}
}

// isScalar reports whether v survives cleaning. Nested structures are
// discarded; nil is a legal missing value.
func isScalar(v interface{}) bool {
	switch v.(type) {
	case nil, bool, string, float64, int, int64:
		return true
	default:
		return false
	}
}

// Rows returns the row count after cleaning.
func (d *Dataset) Rows() int { return len(d.rows) }

// Columns returns the ordered column names.
func (d *Dataset) Columns() []string { return d.columns }

// NumericColumns returns the columns whose non-null values are numbers by
// strict majority, in column order.
func (d *Dataset) NumericColumns() []string {
	var numeric []string
	for _, c := range d.columns {
		present, num := 0, 0
		for _, row := range d.rows {
			v, ok := row[c]
			if !ok || v == nil {
				continue
			}
			present++
			if _, isNum := asFloat(v); isNum {
				num++
			}
		}
		if present > 0 && num*2 > present {
			numeric = append(numeric, c)
		}
	}
	return numeric
}

// NumericFraction returns numeric columns over total columns, 0 when the
// dataset has no columns.
func (d *Dataset) NumericFraction() float64 {
	if len(d.columns) == 0 {
		return 0
	}
	return float64(len(d.NumericColumns())) / float64(len(d.columns))
}

// Value returns the cell for (row, column); absent keys read as nil.
func (d *Dataset) Value(row int, col string) interface{} {
	return d.rows[row][col]
}

// NumericValues returns the present numeric values of a column, in row
// order. Missing and non-numeric cells are skipped.
func (d *Dataset) NumericValues(col string) []float64 {
	var out []float64
	for _, row := range d.rows {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		if f, isNum := asFloat(v); isNum {
			out = append(out, f)
		}
	}
	return out
}

// NumericMatrix materializes the numeric columns as a row-major matrix.
// Missing and non-numeric cells are imputed as zero; this is a documented
// lossy policy, callers must not expect NaN-aware behavior.
func (d *Dataset) NumericMatrix() ([][]float64, []string) {
	cols := d.NumericColumns()
	if len(cols) == 0 {
		return nil, nil
	}
	matrix := make([][]float64, len(d.rows))
	for i, row := range d.rows {
		vec := make([]float64, len(cols))
		for j, c := range cols {
			if f, ok := asFloat(row[c]); ok {
				vec[j] = f
			}
		}
		matrix[i] = vec
	}
	return matrix, cols
}

// MissingCells counts null and absent cells across the full grid.
func (d *Dataset) MissingCells() int {
	missing := 0
	for _, row := range d.rows {
		for _, c := range d.columns {
			if v, ok := row[c]; !ok || v == nil {
				missing++
			}
		}
	}
	return missing
}

// DuplicateRows counts rows that are exact duplicates of an earlier row.
func (d *Dataset) DuplicateRows() int {
	seen := make(map[string]struct{}, len(d.rows))
	dups := 0
	for _, row := range d.rows {
		sig := rowSignature(row, d.columns)
		if _, ok := seen[sig]; ok {
			dups++
			continue
		}
		seen[sig] = struct{}{}
	}
	return dups
}

// Preview returns up to n leading rows keyed by column, with nil for
// missing cells. Used to give the narrative call a glimpse of the data.
func (d *Dataset) Preview(n int) []map[string]interface{} {
	if n < 0 {
		n = 0
	}
	if n > len(d.rows) {
		n = len(d.rows)
	}
	out := make([]map[string]interface{}, n)
	for i := 0; i < n; i++ {
		row := make(map[string]interface{}, len(d.columns))
		for _, c := range d.columns {
			row[c] = d.rows[i][c]
		}
		out[i] = row
	}
	return out
}
