package progress

import (
	"testing"

	"github.com/verte-zerg/stamina/internal/model"
)

func TestSubmitCorrectAndIncorrect(t *testing.T) {
	tr := NewTracker(model.Sequence("ABC"))
	if got := tr.Submit('A'); got != Correct {
		t.Fatalf("expected correct, got %v", got)
	}
	if tr.Cursor() != 1 {
		t.Fatalf("expected cursor 1, got %d", tr.Cursor())
	}
	if got := tr.Submit('X'); got != Incorrect {
		t.Fatalf("expected incorrect, got %v", got)
	}
	if tr.Cursor() != 1 {
		t.Fatalf("expected cursor to stay at 1, got %d", tr.Cursor())
	}
	target, ok := tr.CurrentTarget()
	if !ok || target != 'B' {
		t.Fatalf("expected target B, got %q (%v)", target, ok)
	}
}

func TestCompletion(t *testing.T) {
	tr := NewTracker(model.Sequence("AAB"))
	for _, r := range "AAB" {
		if tr.IsComplete() {
			t.Fatalf("completed too early at cursor %d", tr.Cursor())
		}
		if tr.Submit(r) != Correct {
			t.Fatalf("expected %q to be accepted", r)
		}
	}
	if !tr.IsComplete() {
		t.Fatalf("expected tracker to be complete")
	}
	if _, ok := tr.CurrentTarget(); ok {
		t.Fatalf("expected no target after completion")
	}
	if len(tr.Remaining()) != 0 {
		t.Fatalf("expected nothing remaining, got %s", tr.Remaining())
	}
	if tr.Submit('A') != Incorrect || tr.Cursor() != 3 {
		t.Fatalf("expected completed tracker to reject input and keep cursor")
	}
}

func TestCursorNeverDecreases(t *testing.T) {
	tr := NewTracker(model.Sequence("QWERTY"))
	prev := 0
	for _, r := range "QXWWZERTTY" {
		tr.Submit(r)
		if tr.Cursor() < prev {
			t.Fatalf("cursor went back from %d to %d", prev, tr.Cursor())
		}
		if tr.Cursor() > prev+1 {
			t.Fatalf("cursor jumped from %d to %d", prev, tr.Cursor())
		}
		prev = tr.Cursor()
	}
	if !tr.IsComplete() {
		t.Fatalf("expected completion, cursor at %d", tr.Cursor())
	}
}

func TestRemainingIsCopy(t *testing.T) {
	seq := model.Sequence("ABCD")
	tr := NewTracker(seq)
	seq[0] = 'Z'
	tr.Submit('A')
	rest := tr.Remaining()
	if rest.String() != "B C D" {
		t.Fatalf("unexpected remaining %q", rest.String())
	}
	rest[0] = 'Z'
	if target, _ := tr.CurrentTarget(); target != 'B' {
		t.Fatalf("remaining slice aliases tracker state")
	}
}

func TestResetRewindsCursor(t *testing.T) {
	tr := NewTracker(model.Sequence("AB"))
	tr.Submit('A')
	tr.Reset(model.Sequence("XYZ"))
	if tr.Cursor() != 0 || tr.Len() != 3 {
		t.Fatalf("expected fresh tracker, got cursor=%d len=%d", tr.Cursor(), tr.Len())
	}
}
