package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// dateLayouts are the timestamp shapes the downstream databases emit, tried
// in order. Postgres rows serialise as RFC 3339 with milliseconds.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate renders a wire timestamp for display. Midnight timestamps are
// shown as a plain date. Unparseable input is returned unchanged, and an
// empty string becomes "---".
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "---"
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format("2006-01-02 15:04")
	}
	return raw
}

// FormatNumber formats an integer with locale-style comma separators.
// Example: 12345678 → "12,345,678".
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		return "-" + insertCommas(s[1:])
	}
	return insertCommas(s)
}

// FormatPercent formats a fraction in [0,1] as a percentage with no decimals.
// Negative values (nothing recorded yet) return "---".
func FormatPercent(frac float64) string {
	if frac < 0 {
		return "---"
	}
	return fmt.Sprintf("%.0f%%", frac*100)
}

// Truncate shortens s to at most width terminal cells, appending "..." when
// there is room for it. Wide (CJK) runes count as two cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return cutWidth(s, width)
	}
	return cutWidth(s, width-3) + "..."
}

// cutWidth returns the longest prefix of s that fits in limit cells.
func cutWidth(s string, limit int) string {
	var (
		buf strings.Builder
		w   int
	)
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > limit {
			break
		}
		buf.WriteRune(r)
		w += rw
	}
	return buf.String()
}

// insertCommas inserts comma separators into a digit string every 3 digits from the right.
func insertCommas(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var buf strings.Builder
	lead := n % 3
	if lead > 0 {
		buf.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(s[i : i+3])
	}
	return buf.String()
}
