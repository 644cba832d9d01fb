package card

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

const (
	entranceRise  = 30.0 // pixels below the resting position
	entranceScale = 0.95
)

// EntranceField animates the staggered appearance of a row of cards. Each
// card springs from 0 to 1 once its delay has elapsed.
type EntranceField struct {
	spring  harmonica.Spring
	tps     int
	stagger time.Duration
	ticks   int
	pos     []float64
	vel     []float64
}

// NewEntranceField builds a field ticking at tps frames per second with a
// spring of the given stiffness and damping (unit mass).
func NewEntranceField(tps int, stiffness, damping float64, stagger time.Duration) *EntranceField {
	if tps <= 0 {
		tps = 60
	}
	freq := math.Sqrt(stiffness)
	return &EntranceField{
		spring:  harmonica.NewSpring(harmonica.FPS(tps), freq, damping/(2*freq)),
		tps:     tps,
		stagger: stagger,
	}
}

// Reset restarts the animation for n cards.
func (f *EntranceField) Reset(n int) {
	f.ticks = 0
	f.pos = make([]float64, n)
	f.vel = make([]float64, n)
}

func (f *EntranceField) Len() int { return len(f.pos) }

// Tick advances every started card by one frame.
func (f *EntranceField) Tick() {
	f.ticks++
	elapsed := time.Duration(f.ticks) * time.Second / time.Duration(f.tps)
	for i := range f.pos {
		if elapsed < time.Duration(i)*f.stagger {
			continue
		}
		f.pos[i], f.vel[i] = f.spring.Update(f.pos[i], f.vel[i], 1)
	}
}

// Progress is card i's spring position; it may slightly exceed 1. Cards
// outside the field are fully entered.
func (f *EntranceField) Progress(i int) float64 {
	if i < 0 || i >= len(f.pos) {
		return 1
	}
	return f.pos[i]
}

// Opacity, OffsetY and Scale map card i's progress onto its appearance.
func (f *EntranceField) Opacity(i int) float64 { return clamp01(f.Progress(i)) }

func (f *EntranceField) OffsetY(i int) float64 { return entranceRise * (1 - f.Progress(i)) }

func (f *EntranceField) Scale(i int) float64 {
	return entranceScale + (1-entranceScale)*f.Progress(i)
}
