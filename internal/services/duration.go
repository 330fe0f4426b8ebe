// internal/services/duration.go
package services

import (
	"strconv"
	"strings"
)

// ParseDurationSeconds converts a free-text duration string such as "10s",
// "2m" or "7.5" into seconds. Everything except digits and the decimal
// point is stripped before parsing. A value containing the letter "m" (but
// not "ms") is read as minutes. Unparseable input yields 0, which callers
// treat as "duration unknown" rather than a zero-length video.
func ParseDurationSeconds(value string) float64 {
	if value == "" {
		return 0
	}

	var b strings.Builder
	for _, r := range value {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	num, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || num < 0 {
		return 0
	}

	lower := strings.ToLower(value)
	if strings.Contains(lower, "m") && !strings.Contains(lower, "ms") {
		return num * 60
	}

	return num
}
