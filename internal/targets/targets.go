// Package targets maps practice letters to the on-screen targets that show them.
package targets

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/stamina/internal/model"
)

// Target is one labeled cell of the grid.
type Target struct {
	ID    string
	Label string
}

// Map resolves a letter to the id of the target labeled with it.
type Map struct {
	byLetter map[rune]string
}

// NewMap builds the mapping from targets. Labels that are not a single
// practice letter are skipped; the first target wins for a repeated label.
func NewMap(targets []Target) *Map {
	m := &Map{byLetter: make(map[rune]string, len(targets))}
	for _, t := range targets {
		label := []rune(strings.TrimSpace(t.Label))
		if len(label) != 1 || !model.IsLetter(label[0]) {
			continue
		}
		if _, ok := m.byLetter[label[0]]; ok {
			continue
		}
		m.byLetter[label[0]] = t.ID
	}
	return m
}

// Lookup returns the target id for r.
func (m *Map) Lookup(r rune) (string, bool) {
	if m == nil {
		return "", false
	}
	id, ok := m.byLetter[r]
	return id, ok
}

// Len returns the number of mapped letters.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.byLetter)
}

var keyboardRows = []string{"QWERTYUIOP", "ASDFGHJKL", "ZXCVBNM"}

// DefaultRows returns the keyboard-shaped grid drawn by the terminal UI.
func DefaultRows() [][]Target {
	rows := make([][]Target, 0, len(keyboardRows))
	n := 0
	for _, letters := range keyboardRows {
		row := make([]Target, 0, len(letters))
		for _, r := range letters {
			n++
			row = append(row, Target{ID: fmt.Sprintf("key%02d", n), Label: string(r)})
		}
		rows = append(rows, row)
	}
	return rows
}

// Flatten joins grid rows into one target list.
func Flatten(rows [][]Target) []Target {
	var out []Target
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}
