package game

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/ncruces/zenity"
	"github.com/pkg/browser"

	"github.com/iburimskiy/cinecards/internal/catalog"
)

// MovieSource is the backend movie list.
type MovieSource interface {
	Fetch(ctx context.Context) ([]catalog.Movie, error)
	Endpoint() string
}

// Overridden in tests.
var (
	openURL    = browser.OpenURL
	selectFile = func() (string, error) {
		return zenity.SelectFile(
			zenity.Title("Open Movie Catalog"),
			zenity.FileFilters{{
				Name:     "Movie catalog",
				Patterns: []string{"*.json"},
			}},
		)
	}
)

var errUnsupportedLink = errors.New("unsupported link")

// fetchOnce runs the one-shot startup fetch and posts its result.
func (g *Game) fetchOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, g.opts.FetchTimeout)
	defer cancel()

	movies, err := g.source.Fetch(ctx)
	g.post(catalog.Result{Source: g.source.Endpoint(), Movies: movies, Err: err})
}

// openCatalogDialog asks for a local catalog file and loads it in the
// background. Only one dialog is open at a time.
func (g *Game) openCatalogDialog() {
	if !g.dialogOpen.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer g.dialogOpen.Store(false)

		path, err := selectFile()
		if err != nil {
			if errors.Is(err, zenity.ErrCanceled) {
				return
			}
			g.logger.Warn().Err(err).Msg("file dialog failed")
			return
		}
		g.logger.Info().Str("path", path).Msg("loading local catalog")
		movies, err := catalog.LoadFile(path)
		g.post(catalog.Result{Source: path, Movies: movies, Err: err})
	}()
}

func (g *Game) post(r catalog.Result) {
	select {
	case g.results <- r:
	case <-g.done:
	}
}

// openLink opens a movie page in the system browser. It never blocks the UI
// loop and never retries.
func (g *Game) openLink(m catalog.Movie) {
	if err := checkLink(m.URL); err != nil {
		g.logger.Debug().Err(err).Str("movie", m.ID).Msg("not opening link")
		return
	}
	go func() {
		if err := openURL(m.URL); err != nil {
			g.logger.Warn().Err(err).Str("url", m.URL).Msg("failed to open link")
		}
	}()
}

// checkLink accepts absolute http(s) URLs only, so a catalog entry cannot
// make the launcher run a local file.
func checkLink(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: empty", errUnsupportedLink)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", errUnsupportedLink, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", errUnsupportedLink, raw)
	}
	return nil
}
