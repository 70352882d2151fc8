package event

import (
	"github.com/verte-zerg/stamina/internal/model"
	"github.com/verte-zerg/stamina/internal/stats"
)

// Event type names.
const (
	TypeSequenceGenerated = "sequence.generated"
	TypeKeystroke         = "keystroke.recorded"
	TypeDifficultyChanged = "difficulty.changed"
	TypeRunCompleted      = "run.completed"
	TypeExitRequested     = "exit.requested"
	TypeSessionClosed     = "session.closed"
)

// Event is anything published on the bus.
type Event interface {
	EventType() string
}

// SequenceGeneratedEvent is published when a new sequence replaces the old one.
type SequenceGeneratedEvent struct {
	Sequence   model.Sequence
	Difficulty int
}

func (SequenceGeneratedEvent) EventType() string { return TypeSequenceGenerated }

// KeystrokeEvent is published for every letter forwarded to the tracker.
type KeystrokeEvent struct {
	Expected        rune
	Typed           rune
	Correct         bool
	Cursor          int
	CharactersTyped int
	ErrorsCount     int
}

func (KeystrokeEvent) EventType() string { return TypeKeystroke }

// DifficultyChangedEvent is published when the difficulty control moves.
type DifficultyChangedEvent struct {
	From int
	To   int
}

func (DifficultyChangedEvent) EventType() string { return TypeDifficultyChanged }

// RunCompletedEvent carries the final statistics of a finished sequence.
type RunCompletedEvent struct {
	Summary stats.Summary
	Run     model.RunStats
	Letters []model.LetterStats
}

func (RunCompletedEvent) EventType() string { return TypeRunCompleted }

// ExitRequestedEvent asks the UI shell to confirm leaving.
type ExitRequestedEvent struct{}

func (ExitRequestedEvent) EventType() string { return TypeExitRequested }

// SessionClosedEvent is published once when the session terminates.
type SessionClosedEvent struct {
	CompletedRuns int
}

func (SessionClosedEvent) EventType() string { return TypeSessionClosed }
