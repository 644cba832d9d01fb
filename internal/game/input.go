package game

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/cinecards/internal/card"
	"github.com/iburimskiy/cinecards/internal/config"
	"github.com/iburimskiy/cinecards/internal/deck"
)

const (
	scrollStep    = 48.0
	deckCardScale = 0.7
)

// pointer is the primary pointer for this tick: the left mouse button, or
// the first touch when one is active.
type pointer struct {
	x, y         float64
	justPressed  bool
	pressed      bool
	justReleased bool
}

func (g *Game) readPointer() pointer {
	mx, my := ebiten.CursorPosition()
	p := pointer{
		x:            float64(mx),
		y:            float64(my),
		justPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		pressed:      ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		justReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}

	if g.touch < 0 {
		if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
			g.touch = ids[0]
			tx, ty := ebiten.TouchPosition(g.touch)
			return pointer{x: float64(tx), y: float64(ty), justPressed: true, pressed: true}
		}
		return p
	}
	if inpututil.IsTouchJustReleased(g.touch) {
		tx, ty := inpututil.TouchPositionInPreviousTick(g.touch)
		g.touch = -1
		return pointer{x: float64(tx), y: float64(ty), justReleased: true}
	}
	tx, ty := ebiten.TouchPosition(g.touch)
	return pointer{x: float64(tx), y: float64(ty), pressed: true}
}

func (g *Game) handlePointer() {
	p := g.readPointer()
	deckView := g.view == config.ViewDeck

	switch {
	case p.justPressed:
		g.pressing = true
		g.pressX, g.pressY = p.x, p.y
		g.pressMoved = false
		g.pressCard = g.cardAt(p.x, p.y)
		if deckView {
			g.ctrl.PointerDown(p.x)
		}
	case g.pressing && p.pressed:
		if math.Hypot(p.x-g.pressX, p.y-g.pressY) > config.ClickSlop {
			g.pressMoved = true
		}
		if deckView {
			g.ctrl.PointerMove(p.x)
		}
	case g.pressing:
		g.pressing = false
		if deckView {
			g.ctrl.PointerUp()
		}
		if !g.pressMoved && g.pressCard >= 0 && g.cardAt(p.x, p.y) == g.pressCard {
			g.openLink(g.lib.Movies()[g.pressCard])
		}
		g.pressCard = -1
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		if deckView {
			// ebiten reports wheel-up as positive; the deck follows scroll-down
			g.ctrl.Wheel(-wy)
		} else {
			g.scroll = g.gridLayout().ClampScroll(g.scroll-wy*scrollStep, g.lib.Len())
		}
	}

	g.updateHover(p)
}

// updateHover tracks the card under the pointer and its tilt. Tilt is
// suspended while a drag is moving the deck.
func (g *Game) updateHover(p pointer) {
	if g.lib.Loading() || (g.pressing && g.pressMoved && g.view == config.ViewDeck) {
		g.hover = -1
		g.tilt = card.Neutral()
		return
	}
	g.hover = g.cardAt(p.x, p.y)
	if g.hover < 0 {
		g.tilt = card.Neutral()
		return
	}
	g.tilt = card.TiltAt(p.x, p.y, g.cardRect(g.hover))
}

// cardAt returns the card under (x, y) in the current view, or -1.
func (g *Game) cardAt(x, y float64) int {
	n := g.lib.Len()
	if g.lib.Loading() || n == 0 {
		return -1
	}
	if g.view == config.ViewDeck {
		cx, cy := g.deckCenter()
		return deck.HitTest(g.projections, cx, cy, config.CardWidth*deckCardScale, config.CardHeight*deckCardScale, x, y)
	}
	return g.gridLayout().HitTest(x, y, n)
}

// cardRect is card i's untilted screen box in the current view.
func (g *Game) cardRect(i int) card.Rect {
	if g.view == config.ViewDeck {
		cx, cy := g.deckCenter()
		return g.projections[i].Bounds(cx, cy, config.CardWidth*deckCardScale, config.CardHeight*deckCardScale)
	}
	return g.gridLayout().Cell(i)
}
