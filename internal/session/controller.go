// Package session drives a practice session: it turns input events into
// tracker and statistics updates and manages completion and exit.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/verte-zerg/stamina/internal/event"
	"github.com/verte-zerg/stamina/internal/generator"
	"github.com/verte-zerg/stamina/internal/model"
	"github.com/verte-zerg/stamina/internal/progress"
	"github.com/verte-zerg/stamina/internal/stats"
	"github.com/verte-zerg/stamina/internal/targets"
)

// Defaults for the difficulty control.
const (
	DefaultDifficulty    = 1
	DefaultMaxDifficulty = 10
)

// Escape is the key the UI shell forwards for a cancel request.
const Escape rune = 0x1b

// State is the controller's lifecycle state.
type State int

const (
	// Active means a sequence is in progress.
	Active State = iota
	// Completed means the sequence is done and a decision is pending.
	Completed
	// Closed is terminal.
	Closed
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Completed:
		return "completed"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Choice is the answer to the completion prompt.
type Choice int

const (
	// Continue starts a new run.
	Continue Choice = iota
	// End closes the session.
	End
)

// Category groups key presses for dispatch.
type Category int

// Key categories.
const (
	CategoryOther Category = iota
	CategoryLetter
	CategoryEscape
)

// Classify returns the dispatch category of a key press.
func Classify(r rune) Category {
	switch {
	case r == Escape:
		return CategoryEscape
	case model.IsLetter(r):
		return CategoryLetter
	default:
		return CategoryOther
	}
}

// WeakFunc returns the letters to favor when focus-weak is on.
type WeakFunc func(ctx context.Context) (map[rune]struct{}, error)

// Config holds the session settings.
type Config struct {
	Difficulty    int
	MaxDifficulty int
	FocusWeak     bool
	WeakFactor    float64
}

// Option customizes a Controller.
type Option func(*Controller)

// WithClock replaces time.Now for elapsed-time measurement.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) { c.now = clock }
}

// WithTargets sets the letter-to-target mapping used for highlighting.
func WithTargets(m *targets.Map) Option {
	return func(c *Controller) { c.targets = m }
}

// WithWeakLetters sets the source of weak letters for focus-weak generation.
func WithWeakLetters(fn WeakFunc) Option {
	return func(c *Controller) { c.weak = fn }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// Controller is the single mutator of the tracker and the recorder.
// It is not safe for concurrent use; events must arrive one at a time.
type Controller struct {
	cfg      Config
	gen      *generator.Generator
	bus      *event.Bus
	tracker  *progress.Tracker
	recorder *stats.Recorder
	tally    *stats.LetterTally
	targets  *targets.Map
	weak     WeakFunc
	logger   *slog.Logger
	now      func() time.Time

	state         State
	exitPending   bool
	difficulty    int
	summary       *stats.Summary
	completedRuns int

	keyHandlers map[Category]func(rune)
}

// New creates a controller and starts the first run.
func New(cfg Config, gen *generator.Generator, bus *event.Bus, opts ...Option) *Controller {
	if cfg.MaxDifficulty <= 0 {
		cfg.MaxDifficulty = DefaultMaxDifficulty
	}
	if cfg.Difficulty == 0 {
		cfg.Difficulty = DefaultDifficulty
	}
	if gen == nil {
		gen = generator.New()
	}
	c := &Controller{
		cfg:     cfg,
		gen:     gen,
		bus:     bus,
		tracker: progress.NewTracker(nil),
		tally:   stats.NewLetterTally(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.recorder = stats.NewRecorder(c.now)
	c.difficulty = c.clamp(cfg.Difficulty)
	c.keyHandlers = map[Category]func(rune){
		CategoryLetter: c.handleLetter,
		CategoryEscape: c.handleEscape,
		CategoryOther:  func(rune) {},
	}
	c.startRun()
	return c
}

// OnKeyPress handles a single key press from the UI shell.
func (c *Controller) OnKeyPress(r rune) {
	if c.state != Active {
		return
	}
	c.keyHandlers[Classify(r)](r)
}

// OnDifficultyChange regenerates the sequence for a new difficulty.
// Statistics keep accumulating across the change.
func (c *Controller) OnDifficultyChange(value int) {
	if c.state != Active {
		return
	}
	value = c.clamp(value)
	if value == c.difficulty {
		return
	}
	from := c.difficulty
	c.difficulty = value
	c.logger.Debug("difficulty changed", "from", from, "to", value)
	c.publish(event.DifficultyChangedEvent{From: from, To: value})
	c.regenerate()
}

// OnCompletionDecision answers the completion prompt.
func (c *Controller) OnCompletionDecision(choice Choice) {
	if c.state != Completed {
		return
	}
	switch choice {
	case Continue:
		c.startRun()
	case End:
		c.close()
	}
}

// OnExitConfirmation answers the exit prompt raised by Escape.
func (c *Controller) OnExitConfirmation(confirmed bool) {
	if c.state != Active || !c.exitPending {
		return
	}
	if confirmed {
		c.close()
		return
	}
	c.exitPending = false
}

// Quit closes the session from any state without a prompt.
func (c *Controller) Quit() {
	if c.state == Closed {
		return
	}
	c.close()
}

func (c *Controller) handleLetter(r rune) {
	if c.exitPending {
		return
	}
	expected, ok := c.tracker.CurrentTarget()
	if !ok {
		return
	}
	correct := c.tracker.Submit(r) == progress.Correct
	c.recorder.RecordKeystroke(correct)
	c.tally.Record(expected, correct, c.now())
	c.publish(event.KeystrokeEvent{
		Expected:        expected,
		Typed:           r,
		Correct:         correct,
		Cursor:          c.tracker.Cursor(),
		CharactersTyped: c.recorder.CharactersTyped(),
		ErrorsCount:     c.recorder.ErrorsCount(),
	})
	if correct && c.tracker.IsComplete() {
		c.complete()
	}
}

func (c *Controller) handleEscape(rune) {
	if c.exitPending {
		return
	}
	c.exitPending = true
	c.publish(event.ExitRequestedEvent{})
}

func (c *Controller) complete() {
	summary := c.recorder.Stop()
	c.summary = &summary
	c.state = Completed
	c.completedRuns++
	run := model.RunStats{
		StartedAt:       summary.StartedAt,
		EndedAt:         summary.EndedAt,
		Difficulty:      c.difficulty,
		SequenceLength:  c.tracker.Len(),
		CharactersTyped: summary.CharactersTyped,
		ErrorsCount:     summary.ErrorsCount,
		DurationMs:      summary.ElapsedMs,
	}
	c.publish(event.RunCompletedEvent{
		Summary: summary,
		Run:     run,
		Letters: c.tally.Stats(),
	})
}

// startRun is the only way into a new run.
func (c *Controller) startRun() {
	c.state = Active
	c.exitPending = false
	c.summary = nil
	c.tally.Reset()
	c.regenerate()
	c.recorder.Start()
}

func (c *Controller) regenerate() {
	seq := c.generate()
	c.tracker.Reset(seq)
	c.publish(event.SequenceGeneratedEvent{Sequence: seq.Clone(), Difficulty: c.difficulty})
}

func (c *Controller) generate() model.Sequence {
	if !c.cfg.FocusWeak || c.weak == nil {
		return c.gen.Generate(c.difficulty)
	}
	weakSet, err := c.weak(context.Background())
	if err != nil {
		c.logger.Warn("failed to load weak letters", "error", err)
		return c.gen.Generate(c.difficulty)
	}
	return c.gen.GenerateWeighted(c.difficulty, weakSet, c.cfg.WeakFactor)
}

func (c *Controller) close() {
	c.state = Closed
	c.exitPending = false
	c.publish(event.SessionClosedEvent{CompletedRuns: c.completedRuns})
}

func (c *Controller) clamp(value int) int {
	return max(1, min(value, c.cfg.MaxDifficulty))
}

func (c *Controller) publish(e event.Event) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}
