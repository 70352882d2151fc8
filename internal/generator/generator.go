// Package generator builds practice letter sequences.
package generator

import (
	"math"
	"math/rand"
	"time"

	"github.com/verte-zerg/stamina/internal/model"
)

const (
	minExtraLength = 1
	maxExtraLength = 9
	lengthOffset   = 5
	lengthDivisor  = 2.5
)

// Generator produces randomized letter sequences.
type Generator struct {
	rnd      *rand.Rand
	alphabet []rune
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator drawing from the given source.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{
		rnd:      rand.New(src),
		alphabet: []rune(model.Alphabet),
	}
}

// BaseLength maps a difficulty control value to the unperturbed length.
func BaseLength(difficulty int) int {
	if difficulty < 1 {
		difficulty = 1
	}
	return (difficulty-1)*5 + 5
}

// Length returns the sequence length for a difficulty, including the random term.
func (g *Generator) Length(difficulty int) int {
	extra := minExtraLength + g.rnd.Intn(maxExtraLength-minExtraLength+1)
	return lengthOffset + int(math.Round(float64(BaseLength(difficulty))/lengthDivisor)) + extra
}

// Generate draws letters uniformly with repeats allowed.
func (g *Generator) Generate(difficulty int) model.Sequence {
	n := g.Length(difficulty)
	seq := make(model.Sequence, n)
	for i := range seq {
		seq[i] = g.alphabet[g.rnd.Intn(len(g.alphabet))]
	}
	return seq
}

// GenerateWeighted draws letters with a bias toward weak letters.
func (g *Generator) GenerateWeighted(difficulty int, weakSet map[rune]struct{}, factor float64) model.Sequence {
	if len(weakSet) == 0 || factor <= 0 {
		return g.Generate(difficulty)
	}
	weights := make([]float64, len(g.alphabet))
	total := 0.0
	for i, r := range g.alphabet {
		w := 1.0
		if _, ok := weakSet[r]; ok {
			w += factor
		}
		weights[i] = w
		total += w
	}

	n := g.Length(difficulty)
	seq := make(model.Sequence, n)
	for i := range seq {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := len(weights) - 1
		for j, w := range weights {
			acc += w
			if r < acc {
				idx = j
				break
			}
		}
		seq[i] = g.alphabet[idx]
	}
	return seq
}
