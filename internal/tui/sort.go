package tui

import (
	"sort"
	"strconv"
	"strings"
)

// sortRows returns a sorted copy of rows ordered by the cells in column col.
// col -1 means no sort (preserve arrival order).
// Numeric cells compare as numbers, everything else case-insensitively.
// Ties are broken by the first column ascending.
func sortRows(rows []Row, col int, desc bool) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)

	if col < 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := cellAt(out[i], col), cellAt(out[j], col)
		c := compareCells(a, b)
		if c == 0 {
			return compareCells(cellAt(out[i], 0), cellAt(out[j], 0)) < 0
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func cellAt(r Row, col int) string {
	if col < len(r.Cells) {
		return r.Cells[col]
	}
	return ""
}

// compareCells returns -1, 0 or +1. Integer cells sort before text cells.
func compareCells(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
