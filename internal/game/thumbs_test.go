package game

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/cinecards/internal/catalog"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

// halves is a w x h image, red on the left and blue on the right.
func halves(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.Set(x, y, red)
			} else {
				img.Set(x, y, blue)
			}
		}
	}
	return img
}

func assertNearColor(t *testing.T, want, got color.RGBA) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, 2)
	assert.InDelta(t, want.G, got.G, 2)
	assert.InDelta(t, want.B, got.B, 2)
}

func TestCoverFit_CropsAroundCenter(t *testing.T) {
	dst := coverFit(halves(200, 100), 10, 10)

	assert.Equal(t, image.Rect(0, 0, 10, 10), dst.Bounds())
	assertNearColor(t, red, dst.RGBAAt(1, 5))
	assertNearColor(t, blue, dst.RGBAAt(8, 5))
}

func TestCoverFit_TallSource(t *testing.T) {
	dst := coverFit(halves(50, 400), 20, 10)
	assert.Equal(t, image.Rect(0, 0, 20, 10), dst.Bounds())
	assertNearColor(t, red, dst.RGBAAt(2, 5))
	assertNearColor(t, blue, dst.RGBAAt(17, 5))
}

func TestCoverFit_EmptySource(t *testing.T) {
	dst := coverFit(image.NewRGBA(image.Rectangle{}), 4, 3)
	assert.Equal(t, image.Rect(0, 0, 4, 3), dst.Bounds())
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(1, 1))
}

func thumbServer(t *testing.T) *httptest.Server {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, halves(40, 20)))
	body := buf.Bytes()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/poster.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(body)
		case "/garbage.png":
			_, _ = w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("thumbnail batch did not finish")
	}
}

func TestThumbLoader_Load(t *testing.T) {
	srv := thumbServer(t)
	l := newThumbLoader(srv.Client(), 2, 20, 10, zerolog.Nop())

	movies := []catalog.Movie{
		{ID: "1", Thumbnail: srv.URL + "/poster.png"},
		{ID: "2", Thumbnail: srv.URL + "/missing.png"},
		{ID: "3"},
		{ID: "4", Thumbnail: srv.URL + "/garbage.png"},
		{ID: "5", Thumbnail: srv.URL + "/poster.png"},
	}
	waitDone(t, l.load(context.Background(), movies))

	got := l.drain()
	require.Len(t, got, 2)
	assert.Contains(t, got, 0)
	assert.Contains(t, got, 4)
	assert.Equal(t, image.Rect(0, 0, 20, 10), got[0].Bounds())

	assert.Nil(t, l.drain())
}

func TestThumbLoader_NewBatchDropsStaleResults(t *testing.T) {
	srv := thumbServer(t)
	l := newThumbLoader(srv.Client(), 1, 20, 10, zerolog.Nop())

	waitDone(t, l.load(context.Background(), []catalog.Movie{{Thumbnail: srv.URL + "/poster.png"}}))
	stale := l.gen

	waitDone(t, l.load(context.Background(), nil))
	assert.Nil(t, l.drain())

	l.put(stale, 0, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	assert.Nil(t, l.drain())
}

func TestThumbLoader_StopCancelsFetches(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	l := newThumbLoader(srv.Client(), 1, 20, 10, zerolog.Nop())
	done := l.load(context.Background(), []catalog.Movie{{Thumbnail: srv.URL + "/slow.png"}})
	l.stop()

	waitDone(t, done)
	assert.Nil(t, l.drain())
}
