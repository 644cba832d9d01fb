package card

import (
	"fmt"
	"math"
)

const (
	maxRotateX = 8.0  // degrees, pointer at top/bottom edge
	maxRotateY = 10.0 // degrees, pointer at left/right edge
	hoverScale = 1.02
)

// Rect is an axis-aligned card box in screen pixels.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W &&
		y >= r.Y && y <= r.Y+r.H
}

func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Tilt is the 3D hover illusion applied to a card.
type Tilt struct {
	RotateX float64 // degrees around the horizontal axis
	RotateY float64 // degrees around the vertical axis
	Scale   float64
}

// Neutral is the resting pose.
func Neutral() Tilt { return Tilt{Scale: 1} }

func (t Tilt) IsNeutral() bool { return t == Neutral() }

// TiltAt computes the tilt for a pointer at (px, py) over r. The pointer
// offset from center is taken as a fraction of the half extent, clamped to
// [-1,1]. A pointer outside r or a degenerate r yields Neutral.
func TiltAt(px, py float64, r Rect) Tilt {
	if r.W <= 0 || r.H <= 0 || !r.Contains(px, py) {
		return Neutral()
	}
	cx, cy := r.Center()
	percentX := clampUnit((px - cx) / (r.W / 2))
	percentY := clampUnit((py - cy) / (r.H / 2))

	return Tilt{
		RotateX: -percentY * maxRotateX,
		RotateY: percentX * maxRotateY,
		Scale:   hoverScale,
	}
}

// FormatRating renders a rating with one decimal place.
func FormatRating(r float64) string {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		r = 0
	}
	return fmt.Sprintf("%.1f", r)
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
