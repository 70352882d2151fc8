// Package progress tracks the cursor through a practice sequence.
package progress

import "github.com/verte-zerg/stamina/internal/model"

// Result is the outcome of a submitted letter.
type Result int

const (
	// Incorrect means the letter did not match the current target.
	Incorrect Result = iota
	// Correct means the letter matched and the cursor advanced.
	Correct
)

func (r Result) String() string {
	if r == Correct {
		return "correct"
	}
	return "incorrect"
}

// Tracker holds a sequence and the index of the next expected letter.
type Tracker struct {
	sequence model.Sequence
	cursor   int
}

// NewTracker returns a tracker positioned at the start of seq.
func NewTracker(seq model.Sequence) *Tracker {
	t := &Tracker{}
	t.Reset(seq)
	return t
}

// Reset stores a copy of seq and moves the cursor to 0.
func (t *Tracker) Reset(seq model.Sequence) {
	t.sequence = seq.Clone()
	t.cursor = 0
}

// CurrentTarget returns the expected letter, or false once complete.
func (t *Tracker) CurrentTarget() (rune, bool) {
	if t.IsComplete() {
		return 0, false
	}
	return t.sequence[t.cursor], true
}

// Submit compares r to the current target and advances on a match.
// A completed tracker rejects every letter and keeps its cursor.
func (t *Tracker) Submit(r rune) Result {
	target, ok := t.CurrentTarget()
	if !ok || r != target {
		return Incorrect
	}
	t.cursor++
	return Correct
}

// IsComplete reports whether every letter has been typed.
func (t *Tracker) IsComplete() bool {
	return t.cursor == len(t.sequence)
}

// Remaining returns the letters from the cursor to the end.
func (t *Tracker) Remaining() model.Sequence {
	return t.sequence[t.cursor:].Clone()
}

// Cursor returns the index of the next expected letter.
func (t *Tracker) Cursor() int {
	return t.cursor
}

// Len returns the sequence length.
func (t *Tracker) Len() int {
	return len(t.sequence)
}

// Sequence returns a copy of the whole sequence.
func (t *Tracker) Sequence() model.Sequence {
	return t.sequence.Clone()
}
