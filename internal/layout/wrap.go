package layout

import "strings"

// Measurer reports the rendered width of a string, in page units.
type Measurer interface {
	StringWidth(style TextStyle, s string) float64
}

// Wrap breaks text into lines no wider than width. Lines are filled
// greedily word by word; explicit newlines always start a new line and a
// word that is wider than the column on its own is split between runes.
func Wrap(m Measurer, style TextStyle, text string, width float64) []string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			if m.StringWidth(style, word) > width {
				if current != "" {
					lines = append(lines, current)
				}
				pieces := breakWord(m, style, word, width)
				lines = append(lines, pieces[:len(pieces)-1]...)
				current = pieces[len(pieces)-1]
				continue
			}

			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if current != "" && m.StringWidth(style, candidate) > width {
				lines = append(lines, current)
				current = word
				continue
			}
			current = candidate
		}
		lines = append(lines, current)
	}
	return lines
}

// breakWord splits an over-long word; every piece holds at least one rune.
func breakWord(m Measurer, style TextStyle, word string, width float64) []string {
	var pieces []string
	var current []rune
	for _, r := range word {
		next := append(current, r)
		if len(current) > 0 && m.StringWidth(style, string(next)) > width {
			pieces = append(pieces, string(current))
			current = []rune{r}
			continue
		}
		current = next
	}
	return append(pieces, string(current))
}

// TextTop returns the baseline of the first of lineCount lines so that
// the block is centered in the row starting at rowTop. The result never
// lies above rowTop + RowTopPadding; a block taller than the row is
// allowed to run past the row bottom.
func TextTop(g Geometry, rowTop float64, lineCount int) float64 {
	centerY := rowTop + g.RowHeight()/2
	top := centerY - float64(lineCount)*g.LineHeight/2 + g.BaselineAdjust
	if minTop := rowTop + g.RowTopPadding; top < minTop {
		return minTop
	}
	return top
}
