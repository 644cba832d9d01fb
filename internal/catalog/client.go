package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var (
	ErrFetch  = errors.New("fetch movies")
	ErrDecode = errors.New("decode movies")
)

// maxBodyBytes bounds the movie list body.
const maxBodyBytes = 8 << 20

// Client reads the movie list from the backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	path       string
	logger     zerolog.Logger
}

func NewClient(httpClient *http.Client, baseURL, path string, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		path:       path,
		logger:     logger,
	}
}

// Endpoint is the absolute URL Fetch requests.
func (c *Client) Endpoint() string { return c.baseURL + c.path }

// Fetch issues a single GET for the movie list. A body without "results"
// yields an empty, non-nil slice.
func (c *Client) Fetch(ctx context.Context) ([]Movie, error) {
	url := c.Endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", url).Msg("fetching movies")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http call: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrFetch, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: upstream status %d: %s", ErrFetch, resp.StatusCode, snippet(body))
	}

	movies, err := Decode(body)
	if err != nil {
		return nil, err
	}

	c.logger.Info().Int("count", len(movies)).Msg("movies loaded")
	return movies, nil
}

// LoadFile reads a local catalog with the same shape as the backend body.
func LoadFile(path string) ([]Movie, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return Decode(body)
}

// Decode parses a {"results": [...]} document.
func Decode(body []byte) ([]Movie, error) {
	var doc document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if doc.Results == nil {
		return []Movie{}, nil
	}
	return doc.Results, nil
}

func snippet(b []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
