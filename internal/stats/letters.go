package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/stamina/internal/model"
)

type letterStat struct {
	correct      int
	incorrect    int
	latencySumMs int64
	latencyCount int64
}

// LetterTally accumulates per-letter results for one run.
type LetterTally struct {
	letters       map[rune]*letterStat
	prevCorrectAt time.Time
}

// NewLetterTally returns an empty tally.
func NewLetterTally() *LetterTally {
	return &LetterTally{letters: map[rune]*letterStat{}}
}

// Reset clears the tally for a new run.
func (t *LetterTally) Reset() {
	t.letters = map[rune]*letterStat{}
	t.prevCorrectAt = time.Time{}
}

// Record attributes a keystroke to the expected letter. Latency is the gap
// between consecutive correct keystrokes.
func (t *LetterTally) Record(expected rune, correct bool, at time.Time) {
	entry, ok := t.letters[expected]
	if !ok {
		entry = &letterStat{}
		t.letters[expected] = entry
	}
	if !correct {
		entry.incorrect++
		return
	}
	entry.correct++
	if !t.prevCorrectAt.IsZero() {
		entry.latencySumMs += at.Sub(t.prevCorrectAt).Milliseconds()
		entry.latencyCount++
	}
	t.prevCorrectAt = at
}

// Stats returns the tally sorted by letter.
func (t *LetterTally) Stats() []model.LetterStats {
	out := make([]model.LetterStats, 0, len(t.letters))
	for r, entry := range t.letters {
		out = append(out, model.LetterStats{
			Letter:       string(r),
			Correct:      entry.correct,
			Incorrect:    entry.incorrect,
			LatencySumMs: entry.latencySumMs,
			LatencyCount: entry.latencyCount,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Letter < out[j].Letter })
	return out
}
