package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"driftchase/audio"
	"driftchase/config"
	"driftchase/game"
	"driftchase/logging"
	"driftchase/prefs"
	"driftchase/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "config file (default: search for driftchase.{json,yaml,toml})")
	profile := flag.Bool("profile", false, "capture a CPU profile and trace on frame rate drops")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	lc := cfg.Logging()
	log, closeLog, err := logging.Setup(logging.Options{Level: lc.Level, Console: lc.Console}, lc.Dir, "driftchase", time.Now())
	if err != nil {
		log.Warn().Err(err).Msg("log file unavailable")
	}
	defer closeLog()
	log.Info().Str("config", cfg.File()).Int("gomaxprocs", runtime.GOMAXPROCS(0)).Msg("starting")

	pursuitParams, err := cfg.Pursuit()
	if err != nil {
		return err
	}
	driftParams, err := cfg.Drift()
	if err != nil {
		return err
	}

	store, err := prefs.Open(cfg.PrefsPath(), log)
	if err != nil {
		return err
	}
	defer store.Close()

	ac := cfg.Audio()
	sound := audio.New(audio.Options{SampleRate: ac.SampleRate, Volume: ac.Volume}, log)
	if ac.Enabled {
		// A missing sound device is logged and the game runs silent.
		_ = sound.Init()
	}
	defer sound.Close()

	tc := cfg.Telemetry()
	metrics := telemetry.New(telemetry.Config{Enabled: tc.Enabled, ServiceName: tc.ServiceName})
	defer func() {
		if metrics.Enabled() {
			if rm, err := metrics.Collect(context.Background()); err == nil {
				log.Info().Interface("totals", telemetry.Totals(rm)).Msg("session metrics")
			}
		}
		if err := metrics.Shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("metrics shutdown")
		}
	}()

	wc := cfg.Window()
	gc := game.DefaultConfig()
	gc.ScreenWidth, gc.ScreenHeight = wc.Width, wc.Height
	gc.Profile = *profile

	g, err := game.NewGame(game.Options{
		Config:  gc,
		Pursuit: pursuitParams,
		Drift:   driftParams,
		Session: cfg.Session(),
		Seed:    cfg.Seed(),
		Prefs:   store,
		Audio:   sound,
		Meter:   metrics.Meter(),
		Logger:  log,
	})
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(wc.Width, wc.Height)
	ebiten.SetWindowTitle(wc.Title)
	ebiten.SetWindowResizable(true)
	ebiten.SetFullscreen(wc.Fullscreen)

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	log.Info().Msg("bye")
	return nil
}
