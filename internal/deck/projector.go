package deck

import (
	"math"
	"sort"

	"github.com/iburimskiy/cinecards/internal/card"
)

// Projection is the on-screen placement of one card in the ring, relative
// to the ring's center anchor.
type Projection struct {
	X, Y    float64
	Depth   float64 // 0 at the back of the ring, 1 at the front
	Scale   float64
	Opacity float64
	Z       int // stacking order; higher draws on top
}

// StepAngle is the angular spacing between adjacent cards. A non-positive
// count is treated as a single card.
func StepAngle(count int) float64 {
	if count < 1 {
		count = 1
	}
	return 360 / float64(count)
}

// Normalize reduces an angle in degrees to [0,360). Non-finite input yields 0.
func Normalize(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	// -tiny + 360 rounds up to 360
	if m >= 360 {
		m = 0
	}
	return m
}

// Project places card index of count on a ring of the given radius rotated by
// rotation degrees. It has no state and is safe to call every frame.
func Project(rotation float64, index, count int, radius float64) Projection {
	base := float64(index) * StepAngle(count)
	rad := Normalize(base+rotation) * (math.Pi / 180)

	sin, cos := math.Sincos(rad)
	depth := (sin + 1) / 2

	return Projection{
		X:       radius * cos,
		Y:       radius * sin,
		Depth:   depth,
		Scale:   0.85 + depth*0.35,
		Opacity: 0.55 + depth*0.45,
		Z:       int(math.Round(100 + depth*100)),
	}
}

// Order returns card indices sorted back to front, ties broken by index.
func Order(ps []Projection) []int {
	idx := make([]int, len(ps))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		pa, pb := ps[idx[a]], ps[idx[b]]
		if pa.Z != pb.Z {
			return pa.Z < pb.Z
		}
		return pa.Depth < pb.Depth
	})
	return idx
}

// Front returns the index of the card nearest the front, or -1 when empty.
func Front(ps []Projection) int {
	best := -1
	for i, p := range ps {
		if best < 0 || p.Depth > ps[best].Depth {
			best = i
		}
	}
	return best
}

// Bounds is the screen box of a w x h card drawn at p around center (cx, cy).
func (p Projection) Bounds(cx, cy, w, h float64) card.Rect {
	sw, sh := w*p.Scale, h*p.Scale
	return card.Rect{
		X: cx + p.X - sw/2,
		Y: cy + p.Y - sh/2,
		W: sw,
		H: sh,
	}
}

// HitTest returns the topmost card containing (x, y), or -1.
func HitTest(ps []Projection, cx, cy, w, h, x, y float64) int {
	order := Order(ps)
	for i := len(order) - 1; i >= 0; i-- {
		if ps[order[i]].Bounds(cx, cy, w, h).Contains(x, y) {
			return order[i]
		}
	}
	return -1
}
