// ABOUTME: Mark recorder holding the ordered mark log and debounce state
// ABOUTME: Accepts, debounces and undoes timestamped marks for one video session

// Package marks records timestamped mark events for a video session and
// exports them as a single-column CSV of seconds.
package marks

// DefaultMinGapMS is the debounce interval used when none is configured
const DefaultMinGapMS int64 = 250

// CSVHeader is the only column of an exported marks file
const CSVHeader = "timestamp_seconds"

// Mark is an accepted entry in the mark log
type Mark struct {
	Index int   // Position in the log (0-based)
	MS    int64 // Playback position in milliseconds
}

// Recorder owns the mark log and its debounce state.
//
// A Recorder is not safe for concurrent use. All calls are expected to come
// from a single event loop.
type Recorder struct {
	entries  []int64
	minGapMS int64
	lastMS   int64
	hasLast  bool // false until the first mark, so the first mark always passes the gap check
}

// NewRecorder creates an empty recorder with the given debounce interval
func NewRecorder(minGapMS int64) *Recorder {
	r := &Recorder{}
	r.Reset(minGapMS)

	return r
}

// Record appends posMS to the log unless it falls within the debounce gap of
// the last accepted mark. Negative positions are treated as 0.
// Returns the new mark and true when accepted, or false when debounced.
func (r *Recorder) Record(posMS int64) (Mark, bool) {
	if posMS < 0 {
		posMS = 0
	}

	if r.hasLast && posMS-r.lastMS < r.minGapMS {
		return Mark{}, false
	}

	r.entries = append(r.entries, posMS)
	r.lastMS = posMS
	r.hasLast = true

	return Mark{Index: len(r.entries) - 1, MS: posMS}, true
}

// Undo removes and returns the most recent mark.
// The debounce state is left untouched, so re-marking the undone position
// within the gap is still debounced.
func (r *Recorder) Undo() (int64, bool) {
	if len(r.entries) == 0 {
		return 0, false
	}

	last := r.entries[len(r.entries)-1]
	r.entries = r.entries[:len(r.entries)-1]

	return last, true
}

// Reset clears the log for a new session and optionally sets a new gap.
// The next Record call is always accepted.
func (r *Recorder) Reset(minGapMS ...int64) {
	r.entries = nil
	r.lastMS = 0
	r.hasLast = false

	if len(minGapMS) > 0 {
		r.SetMinGap(minGapMS[len(minGapMS)-1])
	}
}

// SetMinGap changes the debounce interval without touching the log
func (r *Recorder) SetMinGap(ms int64) {
	if ms < 0 {
		ms = 0
	}

	r.minGapMS = ms
}

// MinGap returns the debounce interval in milliseconds
func (r *Recorder) MinGap() int64 {
	return r.minGapMS
}

// Last returns the last accepted position, which survives Undo
func (r *Recorder) Last() (int64, bool) {
	return r.lastMS, r.hasLast
}

// Len returns the number of marks in the log
func (r *Recorder) Len() int {
	return len(r.entries)
}

// Entries returns a copy of the log in recording order
func (r *Recorder) Entries() []int64 {
	return append([]int64(nil), r.entries...)
}

// Export returns the CSV rows for the current log: the header followed by
// one row per mark in recording order. It performs no I/O.
func (r *Recorder) Export() [][]string {
	rows := make([][]string, 0, len(r.entries)+1)
	rows = append(rows, []string{CSVHeader})

	for _, ms := range r.entries {
		rows = append(rows, []string{FormatSeconds(ms)})
	}

	return rows
}
