// ABOUTME: Scroll offset for the marks list
// ABOUTME: Keeps the selected mark centred until either end of the list is reached

package tui

// markListOffset returns the viewport Y offset that keeps cursor visible.
// The cursor sits in the middle row while scrolling and moves to the edges
// near the top and bottom of the list.
func markListOffset(height, cursor, total int) int {
	if total == 0 || height < 1 {
		return 0
	}

	maxOffset := max(total-height, 0)

	return min(max(cursor-height/2, 0), maxOffset)
}
