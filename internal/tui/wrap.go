package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes lays out the romaji line: completed units, the pending
// input, the rest of the current unit, then the canonical romaji of the
// units that follow. The first untyped rune carries the cursor; after a
// rejected key it is drawn as a miss.
func buildStyledRunes(typed, pending, current, future string, rejected bool) []styledRune {
	out := make([]styledRune, 0, len(typed)+len(pending)+len(current)+len(future))
	out = appendStyled(out, typed, correctStyle)
	out = appendStyled(out, pending, inputStyle)
	cursorIndex := len(out)
	out = appendStyled(out, current, currentUnitStyle)
	out = appendStyled(out, future, pendingStyle)
	if cursorIndex < len(out) {
		out[cursorIndex] = cursorRune(out[cursorIndex], []rune(current+future)[0], rejected)
	}
	return out
}

func appendStyled(out []styledRune, s string, style lipgloss.Style) []styledRune {
	for _, r := range s {
		out = append(out, styledRune{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	return out
}

func cursorRune(item styledRune, r rune, rejected bool) styledRune {
	style := cursorStyle
	displayed := r
	if rejected {
		style = missStyle
		if r == ' ' {
			displayed = '•'
		}
	}
	item.s = style.Render(string(displayed))
	item.width = runewidth.RuneWidth(displayed)
	return item
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
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
