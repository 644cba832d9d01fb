package grid

import (
	"math"

	"github.com/iburimskiy/cinecards/internal/card"
)

// Breakpoints mirror the responsive column counts of the web layout.
var breakpoints = []struct {
	minWidth float64
	columns  int
}{
	{1024, 5},
	{768, 4},
	{640, 3},
	{0, 2},
}

// Columns returns the column count for a viewport width.
func Columns(width float64) int {
	for _, bp := range breakpoints {
		if width >= bp.minWidth {
			return bp.columns
		}
	}
	return 2
}

// Layout places equally sized cells in rows inside a viewport, with a
// vertical scroll offset.
type Layout struct {
	Width   float64 // viewport width
	Height  float64 // viewport height
	Top     float64 // y of the first row before scrolling
	Margin  float64 // left and right padding
	Gap     float64
	CellH   float64
	MaxCell float64 // upper bound on cell width; 0 means unbounded
	Scroll  float64
}

func (l Layout) Columns() int { return Columns(l.Width) }

// CellWidth is the width each column gets after margins and gaps.
func (l Layout) CellWidth() float64 {
	cols := float64(l.Columns())
	w := (l.Width - 2*l.Margin - (cols-1)*l.Gap) / cols
	if l.MaxCell > 0 && w > l.MaxCell {
		w = l.MaxCell
	}
	return math.Max(w, 0)
}

// left is the x of the first column; the grid is centered when cells are
// capped.
func (l Layout) left() float64 {
	cols := float64(l.Columns())
	used := cols*l.CellWidth() + (cols-1)*l.Gap
	return math.Max(l.Margin, (l.Width-used)/2)
}

// Cell returns the screen rectangle of item i.
func (l Layout) Cell(i int) card.Rect {
	cols := l.Columns()
	row, col := i/cols, i%cols
	w := l.CellWidth()
	return card.Rect{
		X: l.left() + float64(col)*(w+l.Gap),
		Y: l.Top + float64(row)*(l.CellH+l.Gap) - l.Scroll,
		W: w,
		H: l.CellH,
	}
}

// ContentHeight is the total height of n items including the top offset.
func (l Layout) ContentHeight(n int) float64 {
	if n <= 0 {
		return l.Top
	}
	rows := (n + l.Columns() - 1) / l.Columns()
	return l.Top + float64(rows)*l.CellH + float64(rows-1)*l.Gap + l.Margin
}

// MaxScroll is the furthest the content can scroll for n items.
func (l Layout) MaxScroll(n int) float64 {
	return math.Max(0, l.ContentHeight(n)-l.Height)
}

// ClampScroll returns s bounded to [0, MaxScroll(n)].
func (l Layout) ClampScroll(s float64, n int) float64 {
	return math.Min(math.Max(s, 0), l.MaxScroll(n))
}

// HitTest returns the item under (x, y), or -1.
func (l Layout) HitTest(x, y float64, n int) int {
	w := l.CellWidth()
	if n <= 0 || w <= 0 || l.CellH <= 0 {
		return -1
	}
	col := int(math.Floor((x - l.left()) / (w + l.Gap)))
	row := int(math.Floor((y - l.Top + l.Scroll) / (l.CellH + l.Gap)))
	if col < 0 || col >= l.Columns() || row < 0 {
		return -1
	}
	i := row*l.Columns() + col
	if i >= n || !l.Cell(i).Contains(x, y) {
		return -1
	}
	return i
}

// Visible reports whether item i intersects the viewport.
func (l Layout) Visible(i int) bool {
	r := l.Cell(i)
	return r.Y+r.H >= 0 && r.Y <= l.Height
}
