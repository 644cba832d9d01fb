package deck

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Driver names the single input source that currently owns the rotation.
type Driver int

const (
	Autoplay Driver = iota
	Dragging
	Settling
)

func (d Driver) String() string {
	switch d {
	case Autoplay:
		return "autoplay"
	case Dragging:
		return "dragging"
	case Settling:
		return "settling"
	default:
		return "unknown"
	}
}

// Params tunes the controller. Zero fields take the defaults.
type Params struct {
	TPS             int           // fixed ticks per second
	AutoplayPeriod  time.Duration // one full revolution
	WheelStep       float64       // degrees per wheel notch
	DragSensitivity float64       // degrees per pixel
	SwipeThreshold  float64       // pixels
	Stiffness       float64       // spring stiffness, unit mass
	Damping         float64       // spring damping coefficient
}

func DefaultParams() Params {
	return Params{
		TPS:             60,
		AutoplayPeriod:  60 * time.Second,
		WheelStep:       12,
		DragSensitivity: 0.25,
		SwipeThreshold:  40,
		Stiffness:       120,
		Damping:         20,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.TPS <= 0 {
		p.TPS = d.TPS
	}
	if p.AutoplayPeriod <= 0 {
		p.AutoplayPeriod = d.AutoplayPeriod
	}
	if p.WheelStep == 0 {
		p.WheelStep = d.WheelStep
	}
	if p.DragSensitivity == 0 {
		p.DragSensitivity = d.DragSensitivity
	}
	if p.SwipeThreshold <= 0 {
		p.SwipeThreshold = d.SwipeThreshold
	}
	if p.Stiffness <= 0 {
		p.Stiffness = d.Stiffness
	}
	if p.Damping <= 0 {
		p.Damping = d.Damping
	}
	return p
}

const (
	settlePosEpsilon = 0.01 // degrees
	settleVelEpsilon = 0.05 // degrees per second
	settleMaxSeconds = 10
)

// Controller owns the deck rotation. Exactly one driver mutates it at a time:
// autoplay advances it while no gesture is active, a pointer drag suspends
// autoplay, and release hands it to a spring settle that returns control to
// autoplay once it lands. Wheel nudges apply on top of any driver.
//
// Controller is driven from a single UI loop and is not safe for concurrent
// use.
type Controller struct {
	params Params
	spring harmonica.Spring

	rotation float64
	driver   Driver
	count    int

	// drag
	lastX     float64
	dragTotal float64

	// settle
	target      float64
	velocity    float64
	settleTicks int
}

func NewController(p Params) *Controller {
	p = p.withDefaults()
	freq := math.Sqrt(p.Stiffness)
	ratio := p.Damping / (2 * freq)
	return &Controller{
		params: p,
		spring: harmonica.NewSpring(harmonica.FPS(p.TPS), freq, ratio),
		count:  1,
	}
}

// Rotation is the raw accumulated angle in degrees.
func (c *Controller) Rotation() float64 { return c.rotation }

func (c *Controller) Driver() Driver { return c.driver }

// Target is the settle destination; meaningful only while Settling.
func (c *Controller) Target() float64 { return c.target }

// DragDistance is the signed horizontal distance of the current gesture.
func (c *Controller) DragDistance() float64 { return c.dragTotal }

func (c *Controller) Count() int { return c.count }

// SetCount sets the number of cards on the ring.
func (c *Controller) SetCount(n int) {
	if n < 1 {
		n = 1
	}
	c.count = n
}

func (c *Controller) Step() float64 { return StepAngle(c.count) }

// Tick advances the active driver by one fixed step and reports whether a
// settle landed on its target during this tick.
func (c *Controller) Tick() bool {
	switch c.driver {
	case Autoplay:
		c.rotation += 360 / (c.params.AutoplayPeriod.Seconds() * float64(c.params.TPS))
		if c.rotation >= 360 || c.rotation < 0 {
			c.rotation = Normalize(c.rotation)
		}
	case Settling:
		c.rotation, c.velocity = c.spring.Update(c.rotation, c.velocity, c.target)
		c.settleTicks++
		near := math.Abs(c.rotation-c.target) < settlePosEpsilon && math.Abs(c.velocity) < settleVelEpsilon
		if near || c.settleTicks >= settleMaxSeconds*c.params.TPS {
			c.rotation = c.target
			c.velocity = 0
			c.driver = Autoplay
			return true
		}
	}
	return false
}

// Wheel nudges the rotation by one wheel step in the direction of deltaY
// (positive = scroll down = forward). A nudge during a settle ends it.
func (c *Controller) Wheel(deltaY float64) {
	switch {
	case deltaY > 0:
		c.rotation += c.params.WheelStep
	case deltaY < 0:
		c.rotation -= c.params.WheelStep
	default:
		return
	}
	if c.driver == Settling {
		c.driver = Autoplay
		c.velocity = 0
	}
}

// PointerDown starts a drag gesture, interrupting autoplay or a settle.
func (c *Controller) PointerDown(x float64) {
	c.driver = Dragging
	c.lastX = x
	c.dragTotal = 0
	c.velocity = 0
}

// PointerMove applies the horizontal delta since the previous sample.
func (c *Controller) PointerMove(x float64) {
	if c.driver != Dragging {
		return
	}
	dx := x - c.lastX
	c.lastX = x
	c.dragTotal += dx
	c.rotation += dx * c.params.DragSensitivity
}

// PointerUp ends the drag and starts settling toward the release target.
func (c *Controller) PointerUp() {
	if c.driver != Dragging {
		return
	}
	c.target = ReleaseTarget(c.rotation, c.dragTotal, c.Step(), c.params.SwipeThreshold)
	c.velocity = 0
	c.settleTicks = 0
	c.driver = Settling
}

// ReleaseTarget resolves where a released gesture settles. A drag longer than
// threshold pixels is a swipe and moves exactly one step: a leftward drag
// (negative distance) advances. Shorter drags snap to the nearest multiple of
// step, rounding ties up.
func ReleaseTarget(rotation, distance, step, threshold float64) float64 {
	if step <= 0 {
		step = 360
	}
	if math.Abs(distance) > threshold {
		if distance < 0 {
			return rotation + step
		}
		return rotation - step
	}
	rem := math.Mod(rotation, step)
	if rem < 0 {
		rem += step
	}
	down := rotation - rem
	up := down + step
	if rotation-down < up-rotation {
		return down
	}
	return up
}
