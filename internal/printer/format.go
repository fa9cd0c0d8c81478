package printer

import (
	"strconv"
	"time"

	storageio "github.com/slok/taskmon/internal/storage/io"
)

const missingValue = "-"

// FormatTimestamp returns the timestamp in the task store format, "-" if missing.
func FormatTimestamp(t *time.Time) string {
	if t == nil {
		return missingValue
	}
	return t.Format(storageio.TimestampLayout)
}

// FormatDuration returns a human-readable duration rounded to seconds, "-" if missing.
// Examples: "45s", "15m30s", "2h0m5s".
func FormatDuration(d *time.Duration) string {
	if d == nil {
		return missingValue
	}
	return d.Round(time.Second).String()
}

// FormatCount returns the number with thousands separators, "-" if missing.
// Examples: "0", "950", "1,500,000", "-12,000".
func FormatCount(n *int64) string {
	if n == nil {
		return missingValue
	}

	s := strconv.FormatInt(*n, 10)
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}

	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}

	return sign + string(out)
}
