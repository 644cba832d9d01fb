package game

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const ellipsis = "..."

type fonts struct {
	heading *text.GoTextFace
	title   *text.GoTextFace
	body    *text.GoTextFace
	small   *text.GoTextFace
}

func loadFonts() (*fonts, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	return &fonts{
		heading: &text.GoTextFace{Source: bold, Size: 34},
		title:   &text.GoTextFace{Source: bold, Size: 15},
		body:    &text.GoTextFace{Source: regular, Size: 12},
		small:   &text.GoTextFace{Source: bold, Size: 11},
	}, nil
}

func measurer(face text.Face) func(string) float64 {
	return func(s string) float64 {
		w, _ := text.Measure(s, face, 0)
		return w
	}
}

// wrapText breaks s into at most maxLines lines no wider than maxW. Overflow
// on the last line is cut with an ellipsis. Words longer than a line are
// split by rune.
func wrapText(s string, maxW float64, maxLines int, measure func(string) float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 || maxLines <= 0 {
		return nil
	}

	var lines []string
	cur := ""
	for i := 0; i < len(words); i++ {
		w := words[i]
		candidate := w
		if cur != "" {
			candidate = cur + " " + w
		}
		if measure(candidate) <= maxW {
			cur = candidate
			continue
		}
		more := true
		if cur == "" {
			head, tail := splitToFit(w, maxW, measure)
			lines = append(lines, head)
			if tail != "" {
				words[i] = tail
				i--
			} else {
				more = i < len(words)-1
			}
		} else {
			lines = append(lines, cur)
			cur = ""
			i--
		}
		if len(lines) == maxLines {
			if more {
				lines[maxLines-1] = withEllipsis(lines[maxLines-1], maxW, measure)
			}
			return lines
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// truncate cuts s to fit maxW, adding an ellipsis when anything was dropped.
func truncate(s string, maxW float64, measure func(string) float64) string {
	if measure(s) <= maxW {
		return s
	}
	return withEllipsis(s, maxW, measure)
}

func splitToFit(w string, maxW float64, measure func(string) float64) (string, string) {
	r := []rune(w)
	n := len(r)
	for n > 1 && measure(string(r[:n])) > maxW {
		n--
	}
	return string(r[:n]), string(r[n:])
}

// withEllipsis appends an ellipsis to s, dropping runes until it fits.
func withEllipsis(s string, maxW float64, measure func(string) float64) string {
	r := []rune(strings.TrimRight(s, " "))
	for len(r) > 0 && measure(string(r)+ellipsis) > maxW {
		r = r[:len(r)-1]
	}
	return strings.TrimRight(string(r), " ") + ellipsis
}
