// ABOUTME: Tests for seconds and clock formatting
// ABOUTME: Verifies fixed three-decimal output and rounding of fractional seconds

package marks

import "testing"

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0.000"},
		{1, "0.001"},
		{1500, "1.500"},
		{12345, "12.345"},
		{3600000, "3600.000"},
		{-250, "-0.250"},
	}

	for _, tt := range tests {
		if got := FormatSeconds(tt.ms); got != tt.want {
			t.Errorf("FormatSeconds(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{-1, "00:00:00"},
		{0, "00:00:00"},
		{999, "00:00:00"},
		{61_000, "00:01:01"},
		{3_723_500, "01:02:03"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.ms); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestMillisFromSeconds(t *testing.T) {
	tests := []struct {
		sec  float64
		want int64
	}{
		{0, 0},
		{1.5, 1500},
		{12.3454, 12345},
		{0.0625, 63},
		{-0.0625, -63},
	}

	for _, tt := range tests {
		if got := MillisFromSeconds(tt.sec); got != tt.want {
			t.Errorf("MillisFromSeconds(%v) = %d, want %d", tt.sec, got, tt.want)
		}
	}
}
