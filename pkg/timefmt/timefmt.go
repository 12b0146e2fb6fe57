// Package timefmt renders second offsets as subtitle timestamps.
package timefmt

import (
	"fmt"
	"math"
)

// SRT formats seconds as HH:MM:SS,mmm (comma millisecond separator).
func SRT(seconds float64) string {
	return format(seconds, ',')
}

// VTT formats seconds as HH:MM:SS.mmm (period millisecond separator).
func VTT(seconds float64) string {
	return format(seconds, '.')
}

func format(seconds float64, sep rune) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", h, m, s, sep, ms)
}
