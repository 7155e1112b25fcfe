package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// asFloat converts a scalar cell to float64. JSON numbers decode as float64;
// int variants cover rows built programmatically in tests. Booleans and
// strings are not numeric.
func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// rowSignature renders a row as a canonical string over the given column
// order, so full-row duplicates can be counted with a set.
func rowSignature(row map[string]interface{}, columns []string) string {
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		v, ok := row[c]
		if !ok || v == nil {
			parts = append(parts, c+"=\x00")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%T:%v", c, v, v))
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}
