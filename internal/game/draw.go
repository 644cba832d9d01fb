package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/cinecards/internal/card"
	"github.com/iburimskiy/cinecards/internal/config"
	"github.com/iburimskiy/cinecards/internal/deck"
)

var (
	colorBgTop      = color.RGBA{R: 11, G: 16, B: 32, A: 255}
	colorBgMid      = color.RGBA{R: 10, G: 15, B: 30, A: 255}
	colorBgBottom   = color.RGBA{R: 7, G: 11, B: 23, A: 255}
	colorAuraLeft   = color.RGBA{R: 31, G: 42, B: 68, A: 255}
	colorAuraRight  = color.RGBA{R: 42, G: 23, B: 79, A: 255}
	colorShadow     = color.RGBA{R: 56, G: 189, B: 248, A: 255}
	colorSkeleton   = color.RGBA{R: 30, G: 41, B: 59, A: 255}
	colorSubtitle   = color.RGBA{R: 203, G: 213, B: 225, A: 255}
	colorViewBadge  = color.RGBA{R: 207, G: 250, B: 254, A: 255}
	colorBadgeFill  = color.RGBA{R: 13, G: 13, B: 13, A: 13}
	colorBottomGlow = color.RGBA{R: 79, G: 70, B: 229, A: 255}
)

const subtitle = "A card-game inspired board showcasing cinematic hits. Hover, tilt, and click a card to jump to the trailer."

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawBackground(screen)
	g.drawHeader(screen)

	switch {
	case g.lib.Loading():
		g.drawSkeleton(screen)
	case g.view == config.ViewDeck:
		g.drawDeck(screen)
	default:
		g.drawGrid(screen)
	}

	g.drawStatus(screen)
}

func (g *Game) drawBackground(screen *ebiten.Image) {
	b := screen.Bounds()
	if g.background == nil || g.background.Bounds() != b {
		if g.background != nil {
			g.background.Deallocate()
		}
		g.background = renderBackground(b.Dx(), b.Dy())
	}
	screen.DrawImage(g.background, nil)
}

// renderBackground draws the static backdrop: a vertical night gradient with
// two soft auras at the top corners and an indigo glow along the bottom.
func renderBackground(w, h int) *ebiten.Image {
	img := ebiten.NewImage(w, h)
	fw, fh := float32(w), float32(h)
	for y := 0; y < h; y++ {
		ratio := float64(y) / float64(h)
		var c color.RGBA
		if ratio < 0.6 {
			c = lerpColor(colorBgTop, colorBgMid, ratio/0.6)
		} else {
			c = lerpColor(colorBgMid, colorBgBottom, (ratio-0.6)/0.4)
		}
		vector.StrokeLine(img, 0, float32(y), fw, float32(y), 1, c, false)
	}

	aura := func(cx, cy, r float32, c color.RGBA) {
		const rings = 24
		for i := rings; i > 0; i-- {
			f := float32(i) / rings
			vector.DrawFilledCircle(img, cx, cy, r*f, premul(c, 0.05), true)
		}
	}
	aura(fw*0.1, -fh*0.1, fh*0.8, colorAuraLeft)
	aura(fw*1.1, fh*0.1, fh*0.6, colorAuraRight)

	for y := fh * 0.7; y < fh; y += 2 {
		t := float64((y - fh*0.7) / (fh * 0.3))
		vector.StrokeLine(img, 0, y, fw, y, 2, premul(colorBottomGlow, 0.12*t*t), false)
	}
	return img
}

func (g *Game) drawHeader(screen *ebiten.Image) {
	p := g.header.Progress(0)
	alpha := clamp01(p)
	y := 36 - 10*(1-p)

	drawText(screen, "CineCards", g.fonts.heading, config.GridMargin, y, premul(colorTitle, alpha))

	label := "Grid view"
	if g.view == config.ViewDeck {
		label = "Deck view"
	}
	lw := measurer(g.fonts.small)(label)
	bx := float64(g.width) - config.GridMargin - lw - 24
	vector.DrawFilledRect(screen, float32(bx), 44, float32(lw+24), 22, colorBadgeFill, false)
	vector.StrokeRect(screen, float32(bx), 44, float32(lw+24), 22, 1, colorHairline, false)
	drawText(screen, label, g.fonts.small, bx+12, 48, colorViewBadge)

	sub := truncate(subtitle, float64(g.width)-2*config.GridMargin, measurer(g.fonts.body))
	drawText(screen, sub, g.fonts.body, config.GridMargin, 88, premul(colorSubtitle, 0.8))
}

func (g *Game) drawSkeleton(screen *ebiten.Image) {
	l := g.gridLayout()
	secs := g.elapsed().Seconds()
	pulse := 0.75 + 0.25*math.Cos(secs*math.Pi)
	for i := 0; i < config.SkeletonCount; i++ {
		r := l.Cell(i)
		if !l.Visible(i) {
			continue
		}
		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), premul(colorSkeleton, 0.3*pulse), false)
		vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, colorHairline, false)
	}
}

func (g *Game) drawGrid(screen *ebiten.Image) {
	l := g.gridLayout()
	for i := 0; i < g.lib.Len(); i++ {
		if !l.Visible(i) {
			continue
		}
		r := l.Cell(i)
		cx, cy := r.Center()
		tilt := card.Neutral()
		if i == g.hover {
			tilt = g.tilt
		}
		g.drawCard(screen, i, cardPose{
			cx:      cx,
			cy:      cy + g.entrance.OffsetY(i),
			scale:   r.W / config.CardWidth * g.entrance.Scale(i),
			opacity: g.entrance.Opacity(i),
			tilt:    tilt,
		})
	}
}

func (g *Game) drawDeck(screen *ebiten.Image) {
	cx, cy := g.deckCenter()
	front := deck.Front(g.projections)
	level := g.sound.Level()
	for _, i := range deck.Order(g.projections) {
		p := g.projections[i]
		tilt := card.Neutral()
		if i == g.hover {
			tilt = g.tilt
		}
		boost := 0.0
		if i == front {
			boost = level
		}
		g.drawCard(screen, i, cardPose{
			cx:      cx + p.X,
			cy:      cy + p.Y,
			scale:   p.Scale * deckCardScale,
			opacity: p.Opacity * g.entrance.Opacity(i),
			tilt:    tilt,
			boost:   boost,
		})
	}
}

type cardPose struct {
	cx, cy  float64
	scale   float64
	opacity float64
	tilt    card.Tilt
	boost   float64 // extra ring intensity
}

// drawCard draws the shadow, the pulsing ring and the tilted face of card i
// centered at the pose.
func (g *Game) drawCard(screen *ebiten.Image, i int, pose cardPose) {
	if pose.opacity <= 0 || pose.scale <= 0 {
		return
	}
	s := pose.scale * pose.tilt.Scale
	w, h := config.CardWidth*s, config.CardHeight*s
	x0, y0 := pose.cx-w/2, pose.cy-h/2

	glow := card.Glow(g.elapsed())

	// soft shadow under the card
	shadowA := card.ShadowOpacity(glow) * pose.opacity
	for k := 3; k >= 1; k-- {
		spread := float64(k) * 6 * s
		vector.DrawFilledRect(screen,
			float32(x0-spread), float32(y0+15*s-spread),
			float32(w+2*spread), float32(h+2*spread),
			premul(colorShadow, shadowA/float64(k+2)), false)
	}

	// outer ring running cyan -> indigo -> fuchsia
	ringA := clamp01(card.RingOpacity(glow)+pose.boost*0.4) * pose.opacity
	for k := 1; k <= 3; k++ {
		d := float64(k) * 2 * s
		hue := 190 + float64(k)*35 + 20*math.Sin(g.elapsed().Seconds()+float64(i))
		vector.StrokeRect(screen,
			float32(x0-d), float32(y0-d), float32(w+2*d), float32(h+2*d),
			float32(2*s), hsva(hue, 0.7, 0.95, ringA/float64(k)), true)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-config.CardWidth/2, -config.CardHeight/2)
	applyTilt(&op.GeoM, pose.tilt)
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(pose.cx, pose.cy)
	op.ColorScale.ScaleAlpha(float32(pose.opacity))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.face(i), op)
}

// applyTilt fakes a perspective rotation on a centered card: each axis
// foreshortens by cos(angle) and shears slightly toward the raised edge.
func applyTilt(m *ebiten.GeoM, t card.Tilt) {
	if t.RotateX == 0 && t.RotateY == 0 {
		return
	}
	rx := t.RotateX * math.Pi / 180
	ry := t.RotateY * math.Pi / 180
	m.Skew(-math.Sin(rx)*0.15, math.Sin(ry)*0.15)
	m.Scale(math.Cos(ry), math.Cos(rx))
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	status := "Loading movies..."
	if !g.lib.Loading() {
		status = fmt.Sprintf("%d movies", g.lib.Len())
		if g.view == config.ViewDeck {
			status += " | deck: " + g.ctrl.Driver().String()
		}
	}
	status += " | Tab: grid/deck  O: open catalog  Esc/Q: quit"
	ebitenutil.DebugPrintAt(screen, status, 12, g.height-20)
}
