package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	WindowWidth  = 1280
	WindowHeight = 800

	// Card dimensions
	CardWidth  = 200
	CardHeight = 320
	GridGap    = 20
	GridTop    = 140
	GridMargin = 24

	// Loading skeleton
	SkeletonCount = 10

	// Deck parameters
	DeckRadius        = 200
	AutoplayPeriod    = 60 * time.Second
	WheelStep         = 12.0
	DragSensitivity   = 0.25
	SwipeThreshold    = 40.0
	SpringStiffness   = 120.0
	SpringDamping     = 20.0
	TicksPerSecond    = 60
	ClickSlop         = 4.0
	EntranceStagger   = 60 * time.Millisecond
	EntranceDamping   = 16.0
	GlowPeriod        = 6 * time.Second
	ThumbnailHeight   = 180
	MoviesPath        = "/api/movies"
	ConfigFileName    = "cinecards"
	EnvPrefix         = "CINECARDS"
	DefaultBackendURL = "http://localhost:8000"
)

// View selects how the collection is composed on screen.
type View string

const (
	ViewGrid View = "grid"
	ViewDeck View = "deck"
)

// Config holds the runtime settings resolved from defaults, the optional
// config file and CINECARDS_* environment variables.
type Config struct {
	BackendURL       string
	LogLevel         string
	View             View
	FetchTimeout     time.Duration
	DeckRadius       float64
	ThumbnailWorkers int
	SoundEnabled     bool
	SoundVolume      float64
	SoundFile        string
}

var ErrInvalidView = errors.New("invalid view")

// Load reads cinecards.json from the given directories (first match wins) and
// applies defaults and environment overrides. A missing file is not an error.
func Load(configDirs ...string) (Config, error) {
	v := viper.New()

	v.SetDefault("backendUrl", DefaultBackendURL)
	v.SetDefault("logLevel", "info")
	v.SetDefault("view", string(ViewGrid))
	v.SetDefault("fetchTimeout", "10s")

	v.SetDefault("deck.radius", DeckRadius)

	v.SetDefault("thumbnails.workers", 4)

	v.SetDefault("sound.enabled", true)
	v.SetDefault("sound.volume", 0.5)
	v.SetDefault("sound.file", "")

	v.SetConfigName(ConfigFileName)
	v.SetConfigType("json")
	for _, dir := range configDirs {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// camelCase keys do not map onto SCREAMING_SNAKE env names on their own
	if err := v.BindEnv("backendUrl", EnvPrefix+"_BACKEND_URL"); err != nil {
		return Config{}, fmt.Errorf("bind backendUrl: %w", err)
	}
	if err := v.BindEnv("logLevel", EnvPrefix+"_LOG_LEVEL"); err != nil {
		return Config{}, fmt.Errorf("bind logLevel: %w", err)
	}
	if err := v.BindEnv("fetchTimeout", EnvPrefix+"_FETCH_TIMEOUT"); err != nil {
		return Config{}, fmt.Errorf("bind fetchTimeout: %w", err)
	}

	if len(configDirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	c := Config{
		BackendURL:       strings.TrimRight(v.GetString("backendUrl"), "/"),
		LogLevel:         strings.ToLower(v.GetString("logLevel")),
		View:             View(strings.ToLower(v.GetString("view"))),
		FetchTimeout:     v.GetDuration("fetchTimeout"),
		DeckRadius:       v.GetFloat64("deck.radius"),
		ThumbnailWorkers: v.GetInt("thumbnails.workers"),
		SoundEnabled:     v.GetBool("sound.enabled"),
		SoundVolume:      v.GetFloat64("sound.volume"),
		SoundFile:        v.GetString("sound.file"),
	}

	if c.View != ViewGrid && c.View != ViewDeck {
		return Config{}, fmt.Errorf("%w %q", ErrInvalidView, c.View)
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.DeckRadius <= 0 {
		c.DeckRadius = DeckRadius
	}
	if c.ThumbnailWorkers < 1 {
		c.ThumbnailWorkers = 1
	}
	if c.SoundVolume < 0 {
		c.SoundVolume = 0
	}
	if c.SoundVolume > 1 {
		c.SoundVolume = 1
	}

	return c, nil
}
