package game

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"

	"github.com/iburimskiy/cinecards/internal/card"
	"github.com/iburimskiy/cinecards/internal/catalog"
	"github.com/iburimskiy/cinecards/internal/config"
	"github.com/iburimskiy/cinecards/internal/deck"
	"github.com/iburimskiy/cinecards/internal/grid"
)

// Chimer plays the settle chime and reports how loud it currently is.
type Chimer interface {
	Chime(freq float64)
	Level() float64
}

type silent struct{}

func (silent) Chime(float64)  {}
func (silent) Level() float64 { return 0 }

// chimeScale is a major pentatonic run; the front card picks the note.
var chimeScale = []float64{523.25, 587.33, 659.25, 783.99, 880.00}

type Options struct {
	Source       MovieSource
	View         config.View
	FetchTimeout time.Duration
	DeckRadius   float64
	ThumbClient  *http.Client
	ThumbWorkers int
	Sound        Chimer
	Logger       zerolog.Logger
}

// Game composes the movie collection into the grid or the rotating deck and
// implements ebiten.Game.
type Game struct {
	opts   Options
	source MovieSource
	sound  Chimer
	logger zerolog.Logger

	lib      *catalog.Library
	ctrl     *deck.Controller
	entrance *card.EntranceField
	header   *card.EntranceField
	thumbs   *thumbLoader
	fonts    *fonts

	view   config.View
	width  int
	height int
	ticks  int
	scroll float64

	// pointer gesture
	touch      ebiten.TouchID
	pressing   bool
	pressX     float64
	pressY     float64
	pressMoved bool
	pressCard  int
	hover      int
	tilt       card.Tilt

	projections []deck.Projection

	// render caches, touched only from Update/Draw
	faces      []*ebiten.Image
	thumbImgs  map[int]*ebiten.Image
	background *ebiten.Image

	ctx        context.Context
	results    chan catalog.Result
	done       chan struct{}
	closeOnce  sync.Once
	dialogOpen atomic.Bool
}

func New(opts Options) (*Game, error) {
	f, err := loadFonts()
	if err != nil {
		return nil, err
	}
	if opts.View == "" {
		opts.View = config.ViewGrid
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	if opts.DeckRadius <= 0 {
		opts.DeckRadius = config.DeckRadius
	}
	if opts.Sound == nil {
		opts.Sound = silent{}
	}

	ctrl := deck.NewController(deck.Params{
		TPS:             config.TicksPerSecond,
		AutoplayPeriod:  config.AutoplayPeriod,
		WheelStep:       config.WheelStep,
		DragSensitivity: config.DragSensitivity,
		SwipeThreshold:  config.SwipeThreshold,
		Stiffness:       config.SpringStiffness,
		Damping:         config.SpringDamping,
	})

	header := card.NewEntranceField(config.TicksPerSecond, config.SpringStiffness, 12, 0)
	header.Reset(1)

	return &Game{
		opts:      opts,
		source:    opts.Source,
		sound:     opts.Sound,
		logger:    opts.Logger,
		lib:       catalog.NewLibrary(opts.Logger),
		ctrl:      ctrl,
		entrance:  card.NewEntranceField(config.TicksPerSecond, config.SpringStiffness, config.EntranceDamping, config.EntranceStagger),
		header:    header,
		thumbs:    newThumbLoader(opts.ThumbClient, opts.ThumbWorkers, config.CardWidth, config.ThumbnailHeight, opts.Logger),
		fonts:     f,
		view:      opts.View,
		width:     config.WindowWidth,
		height:    config.WindowHeight,
		touch:     -1,
		pressCard: -1,
		hover:     -1,
		tilt:      card.Neutral(),
		thumbImgs: map[int]*ebiten.Image{},
		ctx:       context.Background(),
		results:   make(chan catalog.Result, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start launches the one-shot movie fetch. Cancelling ctx ends the game.
func (g *Game) Start(ctx context.Context) {
	g.ctx = ctx
	if g.source == nil {
		g.lib.Apply(catalog.Result{})
		return
	}
	go g.fetchOnce(ctx)
}

// Close stops background work. Safe to call more than once.
func (g *Game) Close() {
	g.closeOnce.Do(func() {
		close(g.done)
		g.thumbs.stop()
	})
}

func (g *Game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) || inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.toggleView()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.openCatalogDialog()
	}

	g.drainResults()
	g.drainThumbs()

	g.ticks++
	g.header.Tick()
	g.entrance.Tick()
	if g.view == config.ViewDeck && g.lib.Len() > 0 {
		if g.ctrl.Tick() {
			g.chime()
		}
	}
	g.project()
	g.handlePointer()

	return nil
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width = max(outsideWidth, 320)
	g.height = max(outsideHeight, 240)
	return g.width, g.height
}

// elapsed is the animation clock.
func (g *Game) elapsed() time.Duration {
	return time.Duration(g.ticks) * time.Second / config.TicksPerSecond
}

func (g *Game) drainResults() {
	select {
	case r := <-g.results:
		g.apply(r)
	default:
	}
}

func (g *Game) apply(r catalog.Result) {
	if !g.lib.Apply(r) {
		return
	}
	movies := g.lib.Movies()
	n := len(movies)

	g.ctrl.SetCount(n)
	g.entrance.Reset(n)
	g.scroll = 0
	g.hover = -1
	g.pressing = false

	for _, img := range g.faces {
		if img != nil {
			img.Deallocate()
		}
	}
	for _, img := range g.thumbImgs {
		img.Deallocate()
	}
	g.faces = make([]*ebiten.Image, n)
	g.thumbImgs = map[int]*ebiten.Image{}
	g.projections = make([]deck.Projection, n)

	g.logger.Info().Int("count", n).Str("source", r.Source).Msg("collection ready")
	if n > 0 {
		g.thumbs.load(g.ctx, movies)
	}
}

func (g *Game) drainThumbs() {
	for i, img := range g.thumbs.drain() {
		if i < 0 || i >= len(g.faces) {
			continue
		}
		if old := g.thumbImgs[i]; old != nil {
			old.Deallocate()
		}
		g.thumbImgs[i] = ebiten.NewImageFromImage(img)
		g.invalidateFace(i)
	}
}

func (g *Game) invalidateFace(i int) {
	if g.faces[i] != nil {
		g.faces[i].Deallocate()
		g.faces[i] = nil
	}
}

func (g *Game) toggleView() {
	if g.pressing && g.view == config.ViewDeck {
		g.ctrl.PointerUp()
	}
	g.pressing = false
	g.hover = -1
	g.tilt = card.Neutral()
	if g.view == config.ViewGrid {
		g.view = config.ViewDeck
	} else {
		g.view = config.ViewGrid
	}
	g.logger.Debug().Str("view", string(g.view)).Msg("view changed")
}

// project recomputes every card's ring placement from the current rotation.
func (g *Game) project() {
	n := len(g.projections)
	rotation := g.ctrl.Rotation()
	for i := range g.projections {
		g.projections[i] = deck.Project(rotation, i, n, g.opts.DeckRadius)
	}
}

func (g *Game) chime() {
	front := deck.Front(g.projections)
	if front < 0 {
		front = 0
	}
	g.sound.Chime(chimeScale[front%len(chimeScale)])
}

func (g *Game) gridLayout() grid.Layout {
	return grid.Layout{
		Width:   float64(g.width),
		Height:  float64(g.height),
		Top:     config.GridTop,
		Margin:  config.GridMargin,
		Gap:     config.GridGap,
		CellH:   config.CardHeight,
		MaxCell: config.CardWidth,
		Scroll:  g.scroll,
	}
}

// deckCenter is the ring's anchor on screen.
func (g *Game) deckCenter() (float64, float64) {
	return float64(g.width) / 2, config.GridTop + (float64(g.height)-config.GridTop)/2
}
