package catalog

import "github.com/rs/zerolog"

// Result is the outcome of one load of the collection.
type Result struct {
	Source string
	Movies []Movie
	Err    error
}

// Library holds the session's movie collection and the loading flag that
// gates rendering between the skeleton and the real cards. It is owned by
// the UI loop and is not safe for concurrent use.
type Library struct {
	movies  []Movie
	loading bool
	logger  zerolog.Logger
}

// NewLibrary returns an empty library in the loading state.
func NewLibrary(logger zerolog.Logger) *Library {
	return &Library{loading: true, logger: logger}
}

func (l *Library) Loading() bool { return l.loading }

func (l *Library) Movies() []Movie { return l.movies }

func (l *Library) Len() int { return len(l.movies) }

// Apply stores a load result. A failed load keeps the current collection
// (empty on first load), logs the diagnostic and still clears loading.
// It reports whether the collection was replaced.
func (l *Library) Apply(r Result) bool {
	l.loading = false
	if r.Err != nil {
		l.logger.Error().Err(r.Err).Str("source", r.Source).Msg("failed to load movies")
		return false
	}
	movies := r.Movies
	if movies == nil {
		movies = []Movie{}
	}
	l.movies = movies
	return true
}
