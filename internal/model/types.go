// Package model defines shared data structures.
package model

import "time"

// Alphabet is the set of letters a practice sequence is drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Sequence is an ordered list of target letters for one practice run.
type Sequence []rune

// String renders the sequence as space-separated letters.
func (s Sequence) String() string {
	if len(s) == 0 {
		return ""
	}
	out := make([]rune, 0, len(s)*2-1)
	for i, r := range s {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, r)
	}
	return string(out)
}

// Clone returns an independent copy of the sequence.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// IsLetter reports whether r belongs to the practice alphabet.
func IsLetter(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// Config defines practice settings.
type Config struct {
	Difficulty    int
	MaxDifficulty int
	FocusWeak     bool
	WeakTop       int
	WeakFactor    float64
	Locale        string
}

// RunStats captures a completed practice run.
type RunStats struct {
	StartedAt       time.Time
	EndedAt         time.Time
	Difficulty      int
	SequenceLength  int
	CharactersTyped int
	ErrorsCount     int
	DurationMs      int64
}

// LetterStats stores per-letter stats for a run.
type LetterStats struct {
	Letter       string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// LetterAggregate aggregates letter stats across runs.
type LetterAggregate struct {
	Letter       string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// RunAggregate summarizes a run for reporting.
type RunAggregate struct {
	RunID           int64
	EndedAt         time.Time
	Difficulty      int
	CharactersTyped int
	ErrorsCount     int
	DurationMs      int64
}
