package game

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/cinecards/internal/catalog"
	"github.com/iburimskiy/cinecards/internal/config"
)

type fakeSource struct {
	movies []catalog.Movie
	err    error
	ctx    context.Context
}

func (f *fakeSource) Fetch(ctx context.Context) ([]catalog.Movie, error) {
	f.ctx = ctx
	return f.movies, f.err
}

func (f *fakeSource) Endpoint() string { return "http://backend.test/api/movies" }

type recordingChimer struct {
	mu    sync.Mutex
	notes []float64
}

func (r *recordingChimer) Chime(freq float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, freq)
}

func (r *recordingChimer) Level() float64 { return 0 }

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	opts.Logger = zerolog.Nop()
	g, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(g.Close)
	return g
}

func threeMovies() []catalog.Movie {
	return []catalog.Movie{
		{ID: "1", Title: "Inception", URL: "https://example.com/1"},
		{ID: "2", Title: "Interstellar", URL: "https://example.com/2"},
		{ID: "3", Title: "Arrival", URL: "javascript:alert(1)"},
	}
}

func receive(t *testing.T, g *Game) catalog.Result {
	t.Helper()
	select {
	case r := <-g.results:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("no result posted")
		return catalog.Result{}
	}
}

func TestNew_Defaults(t *testing.T) {
	g := newTestGame(t, Options{})

	assert.Equal(t, config.ViewGrid, g.view)
	assert.Equal(t, 10*time.Second, g.opts.FetchTimeout)
	assert.Equal(t, float64(config.DeckRadius), g.opts.DeckRadius)
	assert.True(t, g.lib.Loading())
	assert.Equal(t, -1, g.hover)
}

func TestStart_WithoutSourceShowsEmptyCollection(t *testing.T) {
	g := newTestGame(t, Options{})
	g.Start(context.Background())

	assert.False(t, g.lib.Loading())
	assert.Zero(t, g.lib.Len())
}

func TestFetchOnce_AppliesMovies(t *testing.T) {
	src := &fakeSource{movies: threeMovies()}
	g := newTestGame(t, Options{Source: src, FetchTimeout: time.Second})

	g.fetchOnce(context.Background())
	r := receive(t, g)
	assert.Equal(t, src.Endpoint(), r.Source)

	g.apply(r)
	assert.False(t, g.lib.Loading())
	assert.Equal(t, 3, g.lib.Len())
	assert.Equal(t, 3, g.ctrl.Count())
	assert.Len(t, g.faces, 3)
	assert.Len(t, g.projections, 3)
	assert.Equal(t, 3, g.entrance.Len())

	_, hasDeadline := src.ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestFetchOnce_FailureKeepsEmptyCollection(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	g := newTestGame(t, Options{Source: src})

	g.fetchOnce(context.Background())
	g.apply(receive(t, g))

	assert.False(t, g.lib.Loading())
	assert.Zero(t, g.lib.Len())
	assert.Equal(t, 1, g.ctrl.Count())
}

func TestPost_DoesNotBlockAfterClose(t *testing.T) {
	g := newTestGame(t, Options{})
	g.results <- catalog.Result{}
	g.Close()

	done := make(chan struct{})
	go func() {
		g.post(catalog.Result{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("post blocked after close")
	}
}

func TestToggleView(t *testing.T) {
	g := newTestGame(t, Options{View: config.ViewDeck})
	g.hover = 2

	g.toggleView()
	assert.Equal(t, config.ViewGrid, g.view)
	assert.Equal(t, -1, g.hover)

	g.toggleView()
	assert.Equal(t, config.ViewDeck, g.view)
}

func TestLayout_Minimum(t *testing.T) {
	g := newTestGame(t, Options{})

	w, h := g.Layout(100, 50)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)

	w, h = g.Layout(1440, 900)
	assert.Equal(t, 1440, w)
	assert.Equal(t, 900, h)
}

func TestChime_FollowsFrontCard(t *testing.T) {
	chimer := &recordingChimer{}
	g := newTestGame(t, Options{View: config.ViewDeck, Sound: chimer})
	g.apply(catalog.Result{Movies: threeMovies()})
	g.project()

	// at rotation 0 the card at 120 degrees sits lowest on screen, in front
	g.chime()
	require.Len(t, chimer.notes, 1)
	assert.Equal(t, chimeScale[1], chimer.notes[0])
}

func TestCardAt(t *testing.T) {
	g := newTestGame(t, Options{})
	assert.Equal(t, -1, g.cardAt(100, 200), "nothing to hit while loading")

	g.apply(catalog.Result{Movies: threeMovies()})
	g.project()

	x, y := g.gridLayout().Cell(1).Center()
	assert.Equal(t, 1, g.cardAt(x, y))
	assert.Equal(t, -1, g.cardAt(1, 1))

	g.toggleView()
	cx, cy := g.deckCenter()
	p := g.projections[1]
	assert.Equal(t, 1, g.cardAt(cx+p.X, cy+p.Y))
}

func TestCheckLink(t *testing.T) {
	tests := []struct {
		url string
		ok  bool
	}{
		{"https://www.imdb.com/title/tt1375666/", true},
		{"http://example.com", true},
		{"", false},
		{"/relative/path", false},
		{"file:///etc/passwd", false},
		{"javascript:alert(1)", false},
		{"https://", false},
		{"http://[::1", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := checkLink(tt.url)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errUnsupportedLink)
			}
		})
	}
}

func stubOpenURL(t *testing.T) <-chan string {
	t.Helper()
	opened := make(chan string, 4)
	old := openURL
	openURL = func(u string) error {
		opened <- u
		return nil
	}
	t.Cleanup(func() { openURL = old })
	return opened
}

func TestOpenLink(t *testing.T) {
	opened := stubOpenURL(t)
	g := newTestGame(t, Options{})
	movies := threeMovies()

	g.openLink(movies[2])
	g.openLink(movies[0])

	select {
	case u := <-opened:
		assert.Equal(t, movies[0].URL, u)
	case <-time.After(time.Second):
		t.Fatal("link not opened")
	}
	assert.Empty(t, opened)
}

func stubSelectFile(t *testing.T, fn func() (string, error)) {
	t.Helper()
	old := selectFile
	selectFile = fn
	t.Cleanup(func() { selectFile = old })
}

func TestOpenCatalogDialog_LoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.json")
	body := `{"results":[{"id":7,"title":"Heat","rating":"8.3"}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	stubSelectFile(t, func() (string, error) { return path, nil })

	g := newTestGame(t, Options{})
	g.openCatalogDialog()

	r := receive(t, g)
	require.NoError(t, r.Err)
	assert.Equal(t, path, r.Source)
	require.Len(t, r.Movies, 1)
	assert.Equal(t, "7", r.Movies[0].ID)
}

func TestOpenCatalogDialog_Canceled(t *testing.T) {
	stubSelectFile(t, func() (string, error) { return "", zenity.ErrCanceled })

	g := newTestGame(t, Options{})
	g.openCatalogDialog()

	assert.Eventually(t, func() bool { return !g.dialogOpen.Load() }, time.Second, 5*time.Millisecond)
	assert.Empty(t, g.results)
}

func TestOpenCatalogDialog_SingleDialog(t *testing.T) {
	release := make(chan struct{})
	calls := 0
	var mu sync.Mutex
	stubSelectFile(t, func() (string, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return "", zenity.ErrCanceled
	})

	g := newTestGame(t, Options{})
	g.openCatalogDialog()
	g.openCatalogDialog()
	close(release)

	assert.Eventually(t, func() bool { return !g.dialogOpen.Load() }, time.Second, 5*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}
