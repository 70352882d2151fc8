package stats

import (
	"sort"

	"github.com/verte-zerg/stamina/internal/model"
)

// SelectWeakLetters selects the lowest-accuracy letters from aggregates.
// Letters that were never mistyped are not weak.
func SelectWeakLetters(aggs []model.LetterAggregate, top int) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	candidates := make([]model.LetterAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Incorrect > 0 {
			candidates = append(candidates, agg)
		}
	}
	if len(candidates) == 0 {
		return weakSet
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai := letterAccuracy(candidates[i])
		aj := letterAccuracy(candidates[j])
		if ai == aj {
			return candidates[i].Letter < candidates[j].Letter
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		runes := []rune(candidates[i].Letter)
		if len(runes) > 0 {
			weakSet[runes[0]] = struct{}{}
		}
	}
	return weakSet
}

func letterAccuracy(agg model.LetterAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
