package session

import (
	"time"

	"github.com/verte-zerg/stamina/internal/model"
	"github.com/verte-zerg/stamina/internal/stats"
)

// View is the read-model the UI shell renders after each event.
type View struct {
	State         State
	ExitPending   bool
	Difficulty    int
	MaxDifficulty int

	Sequence  model.Sequence
	Cursor    int
	Remaining model.Sequence
	Target    rune
	HasTarget bool
	// TargetID is the highlighted grid target, empty when unmapped.
	TargetID string

	CharactersTyped int
	ErrorsCount     int
	Rate            float64
	Elapsed         time.Duration

	// Summary is set while Completed.
	Summary       *stats.Summary
	CompletedRuns int
}

// View returns a snapshot of the session state.
func (c *Controller) View() View {
	v := View{
		State:           c.state,
		ExitPending:     c.exitPending,
		Difficulty:      c.difficulty,
		MaxDifficulty:   c.cfg.MaxDifficulty,
		Sequence:        c.tracker.Sequence(),
		Cursor:          c.tracker.Cursor(),
		Remaining:       c.tracker.Remaining(),
		CharactersTyped: c.recorder.CharactersTyped(),
		ErrorsCount:     c.recorder.ErrorsCount(),
		Rate:            c.recorder.LiveRate(),
		Elapsed:         c.recorder.Elapsed(),
		CompletedRuns:   c.completedRuns,
	}
	v.Target, v.HasTarget = c.tracker.CurrentTarget()
	if v.HasTarget {
		v.TargetID, _ = c.targets.Lookup(v.Target)
	}
	if c.summary != nil {
		summary := *c.summary
		v.Summary = &summary
		v.Rate = summary.Rate
	}
	return v
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Closed reports whether the session has terminated.
func (c *Controller) Closed() bool {
	return c.state == Closed
}

// Difficulty returns the current difficulty value.
func (c *Controller) Difficulty() int {
	return c.difficulty
}

// MaxDifficulty returns the upper bound of the difficulty control.
func (c *Controller) MaxDifficulty() int {
	return c.cfg.MaxDifficulty
}
