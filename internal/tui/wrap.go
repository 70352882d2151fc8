package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/stamina/internal/model"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes renders the letters still to type. The first one is the
// current target; letters are separated by single spaces so wrapping can
// break between them.
func buildStyledRunes(remaining model.Sequence, mistyped bool) []styledRune {
	out := make([]styledRune, 0, len(remaining)*2)
	for i, r := range remaining {
		if i > 0 {
			out = append(out, styledRune{s: " ", width: 1, isSpace: true})
		}
		style := pendingStyle
		if i == 0 {
			style = cursorStyle
			if mistyped {
				style = incorrectStyle.Underline(true)
			}
		}
		out = append(out, styledRune{
			s:     style.Render(string(r)),
			width: runewidth.RuneWidth(r),
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks at the last space that fits, or mid-run when a
// line has none.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var lines []string
	var line []styledRune
	lineWidth := 0
	for _, item := range runes {
		if lineWidth+item.width <= width || len(line) == 0 {
			line = append(line, item)
			lineWidth += item.width
			continue
		}
		if item.isSpace {
			lines = append(lines, renderStyledRunes(line))
			line = nil
			lineWidth = 0
			continue
		}
		cut := lastSpaceIndex(line)
		if cut < 0 {
			lines = append(lines, renderStyledRunes(line))
			line = []styledRune{item}
			lineWidth = item.width
			continue
		}
		lines = append(lines, renderStyledRunes(line[:cut]))
		line = append(append([]styledRune{}, line[cut+1:]...), item)
		lineWidth = lineWidthOf(line)
	}
	if len(line) > 0 {
		lines = append(lines, renderStyledRunes(line))
	}
	return strings.Join(lines, "\n")
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
