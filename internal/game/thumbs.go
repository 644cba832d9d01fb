package game

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/iburimskiy/cinecards/internal/catalog"
)

const maxThumbBytes = 10 << 20

// thumbLoader downloads card thumbnails in the background and hands decoded,
// cover-fitted images back to the UI loop through drain.
type thumbLoader struct {
	httpClient *http.Client
	workers    int
	width      int
	height     int
	logger     zerolog.Logger

	mu     sync.Mutex
	gen    int
	ready  map[int]image.Image
	cancel context.CancelFunc
}

func newThumbLoader(httpClient *http.Client, workers, width, height int, logger zerolog.Logger) *thumbLoader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if workers < 1 {
		workers = 1
	}
	return &thumbLoader{
		httpClient: httpClient,
		workers:    workers,
		width:      width,
		height:     height,
		logger:     logger,
		ready:      map[int]image.Image{},
	}
}

// load starts fetching every movie's thumbnail, abandoning any previous
// batch. It returns immediately; the returned channel closes when the batch
// is done.
func (l *thumbLoader) load(ctx context.Context, movies []catalog.Movie) <-chan struct{} {
	ctx, cancel := context.WithCancel(ctx)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	l.ready = map[int]image.Image{}
	l.cancel = cancel
	l.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i, m := range movies {
			if m.Thumbnail == "" {
				continue
			}
			g.Go(func() error {
				img, err := l.fetch(ctx, m.Thumbnail)
				if err != nil {
					l.logger.Debug().Err(err).Str("movie", m.ID).Msg("thumbnail unavailable")
					return nil
				}
				l.put(gen, i, img)
				return nil
			})
		}
		_ = g.Wait()
	}()
	return done
}

func (l *thumbLoader) put(gen, i int, img image.Image) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return
	}
	l.ready[i] = img
}

// drain returns the thumbnails finished since the last call.
func (l *thumbLoader) drain() map[int]image.Image {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.ready) == 0 {
		return nil
	}
	out := l.ready
	l.ready = map[int]image.Image{}
	return out
}

func (l *thumbLoader) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *thumbLoader) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	src, _, err := image.Decode(io.LimitReader(resp.Body, maxThumbBytes))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return coverFit(src, l.width, l.height), nil
}

// coverFit scales src to fill w x h, cropping the overflow around the center.
func coverFit(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	b := src.Bounds()
	if b.Empty() || w <= 0 || h <= 0 {
		return dst
	}

	// crop the source to the destination aspect ratio
	sw, sh := b.Dx(), b.Dy()
	crop := b
	if sw*h > sh*w {
		cw := sh * w / h
		x0 := b.Min.X + (sw-cw)/2
		crop = image.Rect(x0, b.Min.Y, x0+cw, b.Max.Y)
	} else {
		ch := sw * h / w
		y0 := b.Min.Y + (sh-ch)/2
		crop = image.Rect(b.Min.X, y0, b.Max.X, y0+ch)
	}

	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, xdraw.Src, nil)
	return dst
}
