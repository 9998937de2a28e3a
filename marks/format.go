// ABOUTME: Time formatting helpers for marks and playback clocks
// ABOUTME: Converts milliseconds to fixed-point seconds and HH:MM:SS strings

package marks

import (
	"fmt"
	"math"
)

// FormatSeconds formats ms as seconds with exactly three decimals (e.g. 12.345)
func FormatSeconds(ms int64) string {
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}

	return fmt.Sprintf("%s%d.%03d", sign, ms/1000, ms%1000)
}

// FormatClock formats ms as HH:MM:SS, truncating fractional seconds
func FormatClock(ms int64) string {
	if ms < 0 {
		return "00:00:00"
	}

	seconds := ms / 1000
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// MillisFromSeconds converts fractional seconds to milliseconds, rounding
// half away from zero
func MillisFromSeconds(sec float64) int64 {
	if math.IsNaN(sec) || math.IsInf(sec, 0) {
		return 0
	}

	return int64(math.Round(sec * 1000))
}
