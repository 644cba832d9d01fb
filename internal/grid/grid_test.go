package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLayout() Layout {
	return Layout{Width: 1280, Height: 800, Top: 140, Margin: 24, Gap: 20, CellH: 320}
}

func TestColumns(t *testing.T) {
	tests := []struct {
		width float64
		want  int
	}{
		{320, 2},
		{639, 2},
		{640, 3},
		{767, 3},
		{768, 4},
		{1023, 4},
		{1024, 5},
		{1920, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Columns(tt.width), "width %v", tt.width)
	}
}

func TestCell_RowMajor(t *testing.T) {
	l := testLayout()
	w := l.CellWidth()
	require.InDelta(t, (1280-48-80)/5.0, w, 1e-9)

	c0 := l.Cell(0)
	assert.InDelta(t, 24.0, c0.X, 1e-9)
	assert.Equal(t, 140.0, c0.Y)

	c4 := l.Cell(4)
	assert.InDelta(t, 24+4*(w+20), c4.X, 1e-9)
	assert.Equal(t, 140.0, c4.Y)

	c5 := l.Cell(5)
	assert.InDelta(t, 24.0, c5.X, 1e-9)
	assert.Equal(t, 140.0+340, c5.Y)
}

func TestCell_CappedWidthIsCentered(t *testing.T) {
	l := testLayout()
	l.MaxCell = 200

	assert.Equal(t, 200.0, l.CellWidth())
	used := 5*200.0 + 4*20
	assert.InDelta(t, (1280-used)/2, l.Cell(0).X, 1e-9)
}

func TestScroll(t *testing.T) {
	l := testLayout()

	assert.Equal(t, 0.0, l.MaxScroll(5))
	// 12 items: 3 rows
	content := 140 + 3*320.0 + 2*20 + 24
	assert.InDelta(t, content, l.ContentHeight(12), 1e-9)
	assert.InDelta(t, content-800, l.MaxScroll(12), 1e-9)

	assert.Equal(t, 0.0, l.ClampScroll(-50, 12))
	assert.InDelta(t, content-800, l.ClampScroll(1e6, 12), 1e-9)

	l.Scroll = 100
	assert.Equal(t, 40.0, l.Cell(0).Y)
}

func TestHitTest(t *testing.T) {
	l := testLayout()
	c := l.Cell(6)
	cx, cy := c.Center()

	assert.Equal(t, 6, l.HitTest(cx, cy, 12))
	assert.Equal(t, -1, l.HitTest(cx, cy, 6), "beyond item count")
	assert.Equal(t, -1, l.HitTest(c.X+c.W+10, cy, 12), "in the gap")
	assert.Equal(t, -1, l.HitTest(5, cy, 12), "in the margin")
	assert.Equal(t, -1, l.HitTest(cx, 10, 12), "above the grid")
	assert.Equal(t, -1, l.HitTest(cx, cy, 0))
}

func TestHitTest_Scrolled(t *testing.T) {
	l := testLayout()
	l.Scroll = 340
	c := l.Cell(5)
	cx, cy := c.Center()
	assert.Equal(t, 5, l.HitTest(cx, cy, 10))
}

func TestVisible(t *testing.T) {
	l := testLayout()
	assert.True(t, l.Visible(0))
	assert.False(t, l.Visible(20))
}
