package stats

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/verte-zerg/stamina/internal/model"
	"github.com/verte-zerg/stamina/internal/store"
)

// Report contains precomputed data for the end-of-process report.
type Report struct {
	Runs    []model.RunAggregate
	Letters []model.LetterAggregate
	// WeakTop caps the weakest-letters line; 0 lists every mistyped letter.
	WeakTop int
}

// BuildReport loads the runs recorded in st and their letter aggregates.
func BuildReport(ctx context.Context, st *store.Store) (Report, error) {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return Report{}, err
	}
	letters, err := st.LetterAggregates(ctx, 0)
	if err != nil {
		return Report{}, err
	}
	return Report{Runs: runs, Letters: letters}, nil
}

// Render writes the summary, the run table and the letter table.
func (r Report) Render(w io.Writer) error {
	if err := RenderSummary(w, r.Runs); err != nil {
		return err
	}
	if len(r.Runs) == 0 {
		return nil
	}
	if err := RenderRunTable(w, r.Runs); err != nil {
		return err
	}
	if err := RenderLetterTable(w, r.Letters); err != nil {
		return err
	}
	return renderWeakLetters(w, r.Letters, r.WeakTop)
}

func renderWeakLetters(w io.Writer, aggs []model.LetterAggregate, top int) error {
	weakSet := SelectWeakLetters(aggs, top)
	if len(weakSet) == 0 {
		return nil
	}
	letters := make([]string, 0, len(weakSet))
	for r := range weakSet {
		letters = append(letters, string(r))
	}
	sort.Strings(letters)
	_, err := fmt.Fprintf(w, "Weakest letters: %s\n", strings.Join(letters, " "))
	return err
}
