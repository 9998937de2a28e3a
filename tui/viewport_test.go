// ABOUTME: Tests for the marks list scroll offset
// ABOUTME: Covers the top, middle and bottom scrolling phases

package tui

import "testing"

func TestMarkListOffset(t *testing.T) {
	tests := []struct {
		name   string
		height int
		cursor int
		total  int
		want   int
	}{
		{"empty list", 10, 0, 0, 0},
		{"zero height", 0, 5, 20, 0},
		{"cursor in top half", 10, 3, 50, 0},
		{"cursor at middle", 10, 5, 50, 0},
		{"middle scrolling", 10, 20, 50, 15},
		{"bottom threshold", 10, 45, 50, 40},
		{"last item", 10, 49, 50, 40},
		{"fewer items than height", 10, 7, 8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := markListOffset(tt.height, tt.cursor, tt.total); got != tt.want {
				t.Errorf("markListOffset(%d, %d, %d) = %d, want %d", tt.height, tt.cursor, tt.total, got, tt.want)
			}
		})
	}
}
