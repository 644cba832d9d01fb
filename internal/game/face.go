package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/cinecards/internal/card"
	"github.com/iburimskiy/cinecards/internal/catalog"
	"github.com/iburimskiy/cinecards/internal/config"
)

var (
	colorCardCore   = color.RGBA{R: 16, G: 22, B: 44, A: 255}
	colorCardTint   = color.RGBA{R: 30, G: 44, B: 88, A: 255}
	colorTitle      = color.RGBA{R: 165, G: 243, B: 252, A: 255}
	colorBadge      = color.RGBA{R: 15, G: 23, B: 42, A: 204}
	colorStar       = color.RGBA{R: 253, G: 224, B: 71, A: 255}
	colorDescBg     = color.RGBA{R: 15, G: 23, B: 42, A: 255}
	colorDescText   = color.RGBA{R: 226, G: 232, B: 240, A: 255}
	colorButtonFrom = color.RGBA{R: 79, G: 70, B: 229, A: 255}
	colorButtonTo   = color.RGBA{R: 192, G: 38, B: 211, A: 255}
	colorButtonText = color.RGBA{R: 207, G: 250, B: 254, A: 255}
	colorHairline   = color.RGBA{R: 26, G: 26, B: 26, A: 26}
	colorOverlay    = color.RGBA{R: 2, G: 6, B: 23, A: 255}
)

const (
	facePad      = 12.0
	headerHeight = 36.0
	descTop      = headerHeight + config.ThumbnailHeight + 10
	descLines    = 3
	descLineH    = 15.0
	buttonTop    = descTop + descLines*descLineH + 14
)

// face returns card i's rendered front, drawing it on first use.
func (g *Game) face(i int) *ebiten.Image {
	if g.faces[i] == nil {
		g.faces[i] = g.renderFace(i, g.lib.Movies()[i])
	}
	return g.faces[i]
}

func (g *Game) renderFace(i int, m catalog.Movie) *ebiten.Image {
	const w, h = float32(config.CardWidth), float32(config.CardHeight)
	img := ebiten.NewImage(config.CardWidth, config.CardHeight)

	// core with a diagonal blue tint from the top-left corner
	img.Fill(colorCardCore)
	for y := 0; y < config.CardHeight; y += 2 {
		t := 1 - float64(y)/float64(config.CardHeight)
		c := premul(colorCardTint, 0.35*t*t)
		vector.StrokeLine(img, 0, float32(y), w*float32(0.4+0.6*t), float32(y), 2, c, false)
	}

	g.drawFaceHeader(img, m)
	g.drawFaceThumb(img, i)

	// description on a solid panel
	vector.DrawFilledRect(img, facePad, descTop, w-2*facePad, descLines*descLineH+8, colorDescBg, false)
	lines := wrapText(m.Description, float64(w-2*facePad-12), descLines, measurer(g.fonts.body))
	for li, line := range lines {
		drawText(img, line, g.fonts.body, facePad+6, descTop+4+float64(li)*descLineH, colorDescText)
	}

	// "Watch now" button
	const bw, bh = 112, 24
	for x := 0; x < bw; x++ {
		c := lerpColor(colorButtonFrom, colorButtonTo, float64(x)/bw)
		vector.StrokeLine(img, facePad+float32(x), buttonTop, facePad+float32(x), buttonTop+bh, 1, c, false)
	}
	drawText(img, "Watch now ->", g.fonts.small, facePad+12, buttonTop+5, colorButtonText)

	vector.StrokeRect(img, 0.5, 0.5, w-1, h-1, 1, colorHairline, false)
	return img
}

func (g *Game) drawFaceHeader(img *ebiten.Image, m catalog.Movie) {
	w := float64(config.CardWidth)

	rating := card.FormatRating(m.Rating.Float())
	rw, _ := text.Measure(rating, g.fonts.small, 0)
	badgeW := rw + 30
	badgeX := w - facePad - badgeW
	vector.DrawFilledRect(img, float32(badgeX), 8, float32(badgeW), 20, colorBadge, false)
	vector.StrokeRect(img, float32(badgeX), 8, float32(badgeW), 20, 1, colorHairline, false)
	vector.DrawFilledCircle(img, float32(badgeX+12), 18, 5, colorStar, true)
	drawText(img, rating, g.fonts.small, badgeX+22, 11, colorTitle)

	title := truncate(m.Title, badgeX-facePad-6, measurer(g.fonts.title))
	drawText(img, title, g.fonts.title, facePad, 9, colorTitle)
}

func (g *Game) drawFaceThumb(img *ebiten.Image, i int) {
	const top = float32(headerHeight)
	w := float32(config.CardWidth)
	th := float32(config.ThumbnailHeight)

	if thumb := g.thumbImgs[i]; thumb != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(0, float64(top))
		img.DrawImage(thumb, op)
	} else {
		// placeholder until the thumbnail arrives
		hue := 200 + float64(i*37%90)
		for y := float32(0); y < th; y++ {
			t := float64(y / th)
			vector.StrokeLine(img, 0, top+y, w, top+y, 1, hsva(hue+t*60, 0.55, 0.35-0.15*t, 1), false)
		}
	}

	// darken toward the bottom so the panel below reads
	for y := float32(0); y < th; y += 2 {
		t := float64(y / th)
		vector.StrokeLine(img, 0, top+y, w, top+y, 2, premul(colorOverlay, 0.15+0.55*t*t), false)
	}
}

func drawText(dst *ebiten.Image, s string, face text.Face, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}
