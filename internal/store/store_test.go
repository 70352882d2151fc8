package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/stamina/internal/model"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	st, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func insertRun(t *testing.T, st *Store, i int, letters []model.LetterStats) int64 {
	t.Helper()
	start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
	end := start.Add(30 * time.Second)
	run := model.RunStats{
		StartedAt:       start,
		EndedAt:         end,
		Difficulty:      i + 1,
		SequenceLength:  10,
		CharactersTyped: 12,
		ErrorsCount:     2,
		DurationMs:      end.Sub(start).Milliseconds(),
	}
	id, err := st.InsertRun(context.Background(), run, letters)
	if err != nil {
		t.Fatalf("insert run: %v", err)
	}
	return id
}

func TestInsertAndListRuns(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		ids = append(ids, insertRun(t, st, i, nil))
	}

	runs, err := st.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i, r := range runs {
		if r.RunID != ids[i] {
			t.Fatalf("unexpected order: %+v", runs)
		}
		if r.Difficulty != i+1 || r.CharactersTyped != 12 || r.ErrorsCount != 2 || r.DurationMs != 30000 {
			t.Fatalf("unexpected run %+v", r)
		}
	}
	n, err := st.CountRuns(ctx)
	if err != nil || n != 3 {
		t.Fatalf("expected 3 runs counted, got %d (%v)", n, err)
	}
}

func TestLetterAggregatesWindow(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	insertRun(t, st, 0, []model.LetterStats{
		{Letter: "A", Correct: 5, Incorrect: 0},
		{Letter: "B", Correct: 1, Incorrect: 3},
	})
	insertRun(t, st, 1, []model.LetterStats{
		{Letter: "A", Correct: 2, Incorrect: 1, LatencySumMs: 300, LatencyCount: 2},
	})

	all, err := st.LetterAggregates(ctx, 0)
	if err != nil {
		t.Fatalf("aggregates: %v", err)
	}
	if len(all) != 2 || all[0].Letter != "A" || all[0].Correct != 7 || all[0].Incorrect != 1 {
		t.Fatalf("unexpected aggregates: %+v", all)
	}

	last, err := st.LetterAggregates(ctx, 1)
	if err != nil {
		t.Fatalf("aggregates: %v", err)
	}
	if len(last) != 1 || last[0].Letter != "A" || last[0].LatencySumMs != 300 {
		t.Fatalf("unexpected windowed aggregates: %+v", last)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
}
