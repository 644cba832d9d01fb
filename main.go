package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/iburimskiy/cinecards/internal/catalog"
	"github.com/iburimskiy/cinecards/internal/config"
	"github.com/iburimskiy/cinecards/internal/game"
	"github.com/iburimskiy/cinecards/internal/logging"
	"github.com/iburimskiy/cinecards/internal/sound"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "cinecards:", err)
		os.Exit(1)
	}
}

func run() error {
	dirs := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, config.ConfigFileName))
	}
	cfg, err := config.Load(dirs...)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, level)
	logger.Info().
		Str("backend", cfg.BackendURL).
		Str("view", string(cfg.View)).
		Msg("starting cinecards")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := catalog.NewClient(
		&http.Client{Timeout: cfg.FetchTimeout},
		cfg.BackendURL,
		config.MoviesPath,
		logging.Component(logger, "catalog"),
	)

	player := sound.NewPlayer(cfg.SoundEnabled, cfg.SoundVolume, logging.Component(logger, "sound"))
	loadSample(player, cfg.SoundFile, logger)

	g, err := game.New(game.Options{
		Source:       client,
		View:         cfg.View,
		FetchTimeout: cfg.FetchTimeout,
		DeckRadius:   cfg.DeckRadius,
		ThumbClient:  &http.Client{Timeout: cfg.FetchTimeout},
		ThumbWorkers: cfg.ThumbnailWorkers,
		Sound:        player,
		Logger:       logging.Component(logger, "game"),
	})
	if err != nil {
		return fmt.Errorf("init game: %w", err)
	}
	defer g.Close()
	g.Start(ctx)

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("CineCards - Tab: grid/deck, O: open catalog, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.TicksPerSecond)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	logger.Info().Msg("bye")
	return nil
}

// loadSample swaps the built-in chime for a sound file when one is
// configured. A bad file only costs the custom sound.
func loadSample(p *sound.Player, path string, logger zerolog.Logger) {
	if path == "" || !p.Enabled() {
		return
	}
	buf, err := sound.LoadSample(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("using built-in chime")
		return
	}
	p.UseSample(buf)
}
