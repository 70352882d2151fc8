package session

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/verte-zerg/stamina/internal/event"
	"github.com/verte-zerg/stamina/internal/generator"
	"github.com/verte-zerg/stamina/internal/targets"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func newTestController(t *testing.T, cfg Config, opts ...Option) (*Controller, *fakeClock, *[]event.Event) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	bus := event.NewBus(nil)
	var events []event.Event
	bus.SubscribeAll(func(e event.Event) { events = append(events, e) })
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	c := New(cfg, generator.NewWithSource(rand.NewSource(1)), bus, opts...)
	return c, clock, &events
}

func wrongLetter(r rune) rune {
	if r == 'A' {
		return 'B'
	}
	return 'A'
}

func typeRemaining(c *Controller, clock *fakeClock, step time.Duration) {
	for _, r := range c.View().Remaining {
		clock.now = clock.now.Add(step)
		c.OnKeyPress(r)
	}
}

func countType(events []event.Event, eventType string) int {
	n := 0
	for _, e := range events {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}

func TestQuitClosesFromAnyState(t *testing.T) {
	c, _, events := newTestController(t, Config{})
	c.OnKeyPress(Escape)
	c.Quit()
	if !c.Closed() {
		t.Fatalf("expected closed, got %v", c.State())
	}
	c.Quit()
	if got := countType(*events, event.TypeSessionClosed); got != 1 {
		t.Fatalf("expected one session.closed event, got %d", got)
	}

	done, clock, doneEvents := newTestController(t, Config{})
	typeRemaining(done, clock, 100*time.Millisecond)
	if done.State() != Completed {
		t.Fatalf("expected completed, got %v", done.State())
	}
	done.Quit()
	if !done.Closed() || countType(*doneEvents, event.TypeSessionClosed) != 1 {
		t.Fatalf("expected quit from completed to close the session")
	}
}

func TestStartupIsActive(t *testing.T) {
	c, _, events := newTestController(t, Config{})
	v := c.View()
	if v.State != Active || v.Cursor != 0 || v.CharactersTyped != 0 || v.ErrorsCount != 0 {
		t.Fatalf("unexpected initial view %+v", v)
	}
	if v.Difficulty != DefaultDifficulty || v.MaxDifficulty != DefaultMaxDifficulty {
		t.Fatalf("unexpected difficulty %d/%d", v.Difficulty, v.MaxDifficulty)
	}
	if n := len(v.Sequence); n < 8 || n > 16 {
		t.Fatalf("expected length in [8,16], got %d", n)
	}
	if !v.HasTarget || v.Target != v.Sequence[0] {
		t.Fatalf("expected first letter highlighted")
	}
	if countType(*events, event.TypeSequenceGenerated) != 1 {
		t.Fatalf("expected one sequence event, got %v", *events)
	}
}

func TestMistypeThenComplete(t *testing.T) {
	c, clock, events := newTestController(t, Config{})
	seq := c.View().Sequence

	c.OnKeyPress(seq[0])
	c.OnKeyPress(wrongLetter(seq[1]))
	v := c.View()
	if v.Cursor != 1 || v.CharactersTyped != 2 || v.ErrorsCount != 1 {
		t.Fatalf("unexpected view after mistype %+v", v)
	}

	typeRemaining(c, clock, time.Second)
	v = c.View()
	if v.State != Completed {
		t.Fatalf("expected completed, got %v", v.State)
	}
	if v.HasTarget || len(v.Remaining) != 0 {
		t.Fatalf("expected no target after completion")
	}
	if v.Summary == nil {
		t.Fatalf("expected summary")
	}
	if v.Summary.CharactersTyped != len(seq)+1 || v.Summary.ErrorsCount != 1 {
		t.Fatalf("unexpected summary %+v", v.Summary)
	}
	wantMs := int64(len(seq)-1) * 1000
	if v.Summary.ElapsedMs != wantMs {
		t.Fatalf("expected %dms, got %d", wantMs, v.Summary.ElapsedMs)
	}
	if countType(*events, event.TypeKeystroke) != len(seq)+1 {
		t.Fatalf("expected one keystroke event per letter")
	}
	if countType(*events, event.TypeRunCompleted) != 1 {
		t.Fatalf("expected one completion event")
	}
	last := (*events)[len(*events)-1].(event.RunCompletedEvent)
	if last.Run.SequenceLength != len(seq) || last.Run.Difficulty != 1 || len(last.Letters) == 0 {
		t.Fatalf("unexpected run record %+v", last.Run)
	}

	// Input after completion is not forwarded.
	c.OnKeyPress('A')
	if got := c.View().CharactersTyped; got != len(seq)+1 {
		t.Fatalf("expected counters frozen, got %d", got)
	}
}

func TestZeroDurationCompletionHasZeroRate(t *testing.T) {
	c, clock, _ := newTestController(t, Config{})
	typeRemaining(c, clock, 0)
	v := c.View()
	if v.State != Completed || v.Summary == nil {
		t.Fatalf("expected completed run")
	}
	if v.Summary.Rate != 0 || v.Rate != 0 {
		t.Fatalf("expected rate 0, got %f", v.Summary.Rate)
	}
}

func TestContinueStartsFreshRun(t *testing.T) {
	c, clock, _ := newTestController(t, Config{})
	c.OnKeyPress(wrongLetter(c.View().Sequence[0]))
	typeRemaining(c, clock, time.Second)
	if c.State() != Completed {
		t.Fatalf("expected completed")
	}

	c.OnCompletionDecision(Continue)
	v := c.View()
	if v.State != Active || v.Cursor != 0 || v.CharactersTyped != 0 || v.ErrorsCount != 0 {
		t.Fatalf("expected fresh run, got %+v", v)
	}
	if v.Summary != nil || v.CompletedRuns != 1 {
		t.Fatalf("expected summary cleared and one completed run")
	}
	if len(v.Sequence) < 8 {
		t.Fatalf("expected new sequence, got %s", v.Sequence)
	}
	if v.Elapsed != 0 {
		t.Fatalf("expected clock restarted, got %v", v.Elapsed)
	}
}

func TestEndCloses(t *testing.T) {
	c, clock, events := newTestController(t, Config{})
	typeRemaining(c, clock, time.Millisecond)
	c.OnCompletionDecision(End)
	if !c.Closed() {
		t.Fatalf("expected closed, got %v", c.State())
	}
	c.OnCompletionDecision(Continue)
	c.OnDifficultyChange(5)
	if !c.Closed() || c.Difficulty() != 1 {
		t.Fatalf("expected closed session to ignore events")
	}
	closed := (*events)[len(*events)-1].(event.SessionClosedEvent)
	if closed.CompletedRuns != 1 {
		t.Fatalf("expected 1 completed run, got %d", closed.CompletedRuns)
	}
}

func TestDecisionIgnoredWhileActive(t *testing.T) {
	c, _, _ := newTestController(t, Config{})
	c.OnCompletionDecision(End)
	if c.State() != Active {
		t.Fatalf("expected decision to be ignored while active")
	}
}

func TestEscapeConfirmation(t *testing.T) {
	c, _, events := newTestController(t, Config{})
	target := c.View().Target

	c.OnExitConfirmation(true)
	if c.State() != Active {
		t.Fatalf("expected confirmation without prompt to be ignored")
	}

	c.OnKeyPress(Escape)
	if !c.View().ExitPending {
		t.Fatalf("expected exit prompt")
	}
	if countType(*events, event.TypeExitRequested) != 1 {
		t.Fatalf("expected exit request event")
	}
	c.OnKeyPress(target)
	if c.View().Cursor != 0 || c.View().CharactersTyped != 0 {
		t.Fatalf("expected letters ignored while prompt is open")
	}

	c.OnExitConfirmation(false)
	if c.View().ExitPending || c.State() != Active {
		t.Fatalf("expected prompt dismissed")
	}
	c.OnKeyPress(target)
	if c.View().Cursor != 1 {
		t.Fatalf("expected typing to resume")
	}

	c.OnKeyPress(Escape)
	c.OnExitConfirmation(true)
	if !c.Closed() {
		t.Fatalf("expected closed after confirmation")
	}
}

func TestOtherKeysIgnored(t *testing.T) {
	c, _, events := newTestController(t, Config{})
	before := len(*events)
	for _, r := range []rune{'a', 'z', '1', ' ', '\n', 'Ж'} {
		c.OnKeyPress(r)
	}
	v := c.View()
	if v.CharactersTyped != 0 || v.Cursor != 0 || len(*events) != before {
		t.Fatalf("expected no effect from non-letter keys")
	}
}

func TestDifficultyChangeKeepsStatistics(t *testing.T) {
	c, clock, events := newTestController(t, Config{})
	seq := c.View().Sequence
	c.OnKeyPress(seq[0])
	c.OnKeyPress(wrongLetter(seq[1]))
	clock.now = clock.now.Add(5 * time.Second)

	c.OnDifficultyChange(4)
	v := c.View()
	if v.Difficulty != 4 || v.Cursor != 0 {
		t.Fatalf("expected difficulty 4 and cursor 0, got %+v", v)
	}
	if v.CharactersTyped != 2 || v.ErrorsCount != 1 {
		t.Fatalf("expected statistics kept, got typed=%d errors=%d", v.CharactersTyped, v.ErrorsCount)
	}
	if v.Elapsed != 5*time.Second {
		t.Fatalf("expected clock to keep running, got %v", v.Elapsed)
	}
	// base 20 -> 5 + 8 + [1,9]
	if n := len(v.Sequence); n < 14 || n > 22 {
		t.Fatalf("expected length in [14,22], got %d", n)
	}
	if countType(*events, event.TypeDifficultyChanged) != 1 {
		t.Fatalf("expected difficulty event")
	}

	c.OnDifficultyChange(99)
	if c.Difficulty() != DefaultMaxDifficulty {
		t.Fatalf("expected clamp to max, got %d", c.Difficulty())
	}
	c.OnDifficultyChange(-5)
	if c.Difficulty() != 1 {
		t.Fatalf("expected clamp to 1, got %d", c.Difficulty())
	}
	generated := countType(*events, event.TypeSequenceGenerated)
	c.OnDifficultyChange(1)
	if countType(*events, event.TypeSequenceGenerated) != generated {
		t.Fatalf("expected unchanged difficulty to keep the sequence")
	}
}

func TestDifficultyIgnoredWhenCompleted(t *testing.T) {
	c, clock, _ := newTestController(t, Config{Difficulty: 2})
	typeRemaining(c, clock, time.Second)
	c.OnDifficultyChange(6)
	if c.Difficulty() != 2 || c.State() != Completed {
		t.Fatalf("expected difficulty change to be ignored after completion")
	}
}

func TestTargetHighlight(t *testing.T) {
	m := targets.NewMap(targets.Flatten(targets.DefaultRows()))
	c, _, _ := newTestController(t, Config{}, WithTargets(m))
	v := c.View()
	want, _ := m.Lookup(v.Target)
	if v.TargetID == "" || v.TargetID != want {
		t.Fatalf("expected target id %q, got %q", want, v.TargetID)
	}
	c.OnKeyPress(v.Target)
	next := c.View()
	want, _ = m.Lookup(next.Target)
	if next.TargetID != want {
		t.Fatalf("expected highlight to follow the cursor")
	}
}

func TestFocusWeakUsesWeakLetters(t *testing.T) {
	calls := 0
	weak := func(context.Context) (map[rune]struct{}, error) {
		calls++
		return map[rune]struct{}{'Q': {}}, nil
	}
	c, _, _ := newTestController(t, Config{FocusWeak: true, WeakFactor: 1000}, WithWeakLetters(weak))
	if calls != 1 {
		t.Fatalf("expected weak source consulted once, got %d", calls)
	}
	q := 0
	seq := c.View().Sequence
	for _, r := range seq {
		if r == 'Q' {
			q++
		}
	}
	if q*2 < len(seq) {
		t.Fatalf("expected mostly Q with a heavy weak factor, got %s", seq)
	}
}

func TestFocusWeakFallsBackOnError(t *testing.T) {
	weak := func(context.Context) (map[rune]struct{}, error) {
		return nil, errors.New("unavailable")
	}
	c, _, _ := newTestController(t, Config{FocusWeak: true, WeakFactor: 2}, WithWeakLetters(weak))
	if len(c.View().Sequence) < 8 {
		t.Fatalf("expected a sequence despite the weak source error")
	}
}

func TestClassify(t *testing.T) {
	cases := map[rune]Category{
		'A':    CategoryLetter,
		'Z':    CategoryLetter,
		'a':    CategoryOther,
		'@':    CategoryOther,
		Escape: CategoryEscape,
	}
	for r, want := range cases {
		if got := Classify(r); got != want {
			t.Fatalf("Classify(%q) = %v, want %v", r, got, want)
		}
	}
}
