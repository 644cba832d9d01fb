package card

import (
	"math"
	"time"
)

// GlowPeriod is one full cycle of the pulsing ring.
const GlowPeriod = 6 * time.Second

// glowKeyframes are spread evenly over the period; the cycle loops from the
// last frame back to the first.
var glowKeyframes = [...]float64{0, 1, 0.4, 1}

// Glow returns the ring intensity in [0,1] after elapsed time. It only
// depends on time, never on the pointer.
func Glow(elapsed time.Duration) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	t := float64(elapsed%GlowPeriod) / float64(GlowPeriod)

	segments := float64(len(glowKeyframes) - 1)
	pos := t * segments
	i := int(math.Floor(pos))
	if i >= len(glowKeyframes)-1 {
		return glowKeyframes[len(glowKeyframes)-1]
	}
	u := easeInOut(pos - float64(i))
	a, b := glowKeyframes[i], glowKeyframes[i+1]
	return a + (b-a)*u
}

// ShadowOpacity maps glow onto the drop shadow alpha.
func ShadowOpacity(glow float64) float64 { return 0.25 + clamp01(glow)*0.35 }

// RingOpacity maps glow onto the outer ring alpha.
func RingOpacity(glow float64) float64 { return 0.2 + clamp01(glow)*0.4 }

// easeInOut is the cubic-bezier(0.42, 0, 0.58, 1) timing curve.
func easeInOut(x float64) float64 {
	return cubicBezier(0.42, 0, 0.58, 1, clamp01(x))
}

// cubicBezier evaluates the CSS-style timing curve through (0,0), (x1,y1),
// (x2,y2), (1,1) at progress x.
func cubicBezier(x1, y1, x2, y2, x float64) float64 {
	if x <= 0 || x >= 1 {
		return x
	}
	bez := func(a, b, t float64) float64 {
		mt := 1 - t
		return 3*mt*mt*t*a + 3*mt*t*t*b + t*t*t
	}
	slope := func(a, b, t float64) float64 {
		mt := 1 - t
		return 3*mt*mt*a + 6*mt*t*(b-a) + 3*t*t*(1-b)
	}

	// Newton first, bisection when the slope flattens out.
	t := x
	for i := 0; i < 8; i++ {
		d := slope(x1, x2, t)
		if math.Abs(d) < 1e-6 {
			break
		}
		t -= (bez(x1, x2, t) - x) / d
	}
	if t < 0 || t > 1 || math.Abs(bez(x1, x2, t)-x) > 1e-7 {
		lo, hi := 0.0, 1.0
		t = x
		for i := 0; i < 50; i++ {
			v := bez(x1, x2, t)
			if math.Abs(v-x) < 1e-9 {
				break
			}
			if v < x {
				lo = t
			} else {
				hi = t
			}
			t = (lo + hi) / 2
		}
	}
	return bez(y1, y2, t)
}
