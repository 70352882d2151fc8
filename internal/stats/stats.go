// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/stamina/internal/model"
)

const (
	sparkChars  = " .:-=+*#%@"
	trendWindow = 3
)

// Metrics computes the characters-per-minute rate and accuracy for a run.
// A run shorter than one millisecond has a rate of 0.
func Metrics(typed, errors int, durationMs int64) (cpm, accuracy float64) {
	if typed > 0 {
		correct := typed - errors
		if correct < 0 {
			correct = 0
		}
		accuracy = float64(correct) / float64(typed)
	}
	if durationMs <= 0 {
		return 0, accuracy
	}
	cpm = float64(typed) / float64(durationMs) * 60000
	return cpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary of the completed runs.
func RenderSummary(w io.Writer, runs []model.RunAggregate) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No completed runs.")
		return err
	}
	var totalCPM, totalAcc float64
	bestCPM := 0.0
	typed, errs := 0, 0
	for _, r := range runs {
		cpm, acc := Metrics(r.CharactersTyped, r.ErrorsCount, r.DurationMs)
		totalCPM += cpm
		totalAcc += acc
		bestCPM = math.Max(bestCPM, cpm)
		typed += r.CharactersTyped
		errs += r.ErrorsCount
	}
	count := float64(len(runs))
	lines := []string{
		"Summary",
		fmt.Sprintf("Runs: %d", len(runs)),
		fmt.Sprintf("Characters typed: %d", typed),
		fmt.Sprintf("Errors: %d", errs),
		fmt.Sprintf("Avg CPM: %.2f", totalCPM/count),
		fmt.Sprintf("Best CPM: %.2f", bestCPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
	}
	if len(runs) > 1 {
		lines = append(lines, fmt.Sprintf("CPM trend: [%s]", Sparkline(MovingAverage(RunRates(runs), trendWindow))))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RunRates returns the CPM of each run in order.
func RunRates(runs []model.RunAggregate) []float64 {
	out := make([]float64, len(runs))
	for i, r := range runs {
		out[i], _ = Metrics(r.CharactersTyped, r.ErrorsCount, r.DurationMs)
	}
	return out
}

// RenderRunTable prints one row per completed run.
func RenderRunTable(w io.Writer, runs []model.RunAggregate) error {
	if len(runs) == 0 {
		return nil
	}
	headers := []string{"#", "Difficulty", "Typed", "Errors", "Time (s)", "CPM", "Accuracy"}
	rows := make([][]string, 0, len(runs))
	for i, r := range runs {
		cpm, acc := Metrics(r.CharactersTyped, r.ErrorsCount, r.DurationMs)
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", r.Difficulty),
			fmt.Sprintf("%d", r.CharactersTyped),
			fmt.Sprintf("%d", r.ErrorsCount),
			fmt.Sprintf("%.1f", float64(r.DurationMs)/1000),
			fmt.Sprintf("%.2f", cpm),
			fmt.Sprintf("%.2f%%", acc*100),
		})
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	return writeLines(w, "Runs", formatTable(headers, rows, rightAlign))
}

// RenderLetterTable prints per-letter aggregates, weakest first.
func RenderLetterTable(w io.Writer, aggs []model.LetterAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No letter stats.")
		return err
	}
	sorted := make([]model.LetterAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		ai, aj := letterAccuracy(sorted[i]), letterAccuracy(sorted[j])
		if ai == aj {
			return sorted[i].Letter < sorted[j].Letter
		}
		return ai < aj
	})

	headers := []string{"Letter", "Accuracy", "Avg Latency (ms)", "Correct", "Incorrect"}
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		lat := 0.0
		if agg.LatencyCount > 0 {
			lat = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		rows = append(rows, []string{
			agg.Letter,
			fmt.Sprintf("%.2f%%", letterAccuracy(agg)*100),
			fmt.Sprintf("%.1f", lat),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	return writeLines(w, "Per-Letter", formatTable(headers, rows, rightAlign))
}

func writeLines(w io.Writer, title string, lines []string) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
