// Command drifttui plays the race in a terminal. Arrow keys drive, space pulls
// the handbrake, r restarts and q quits.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"driftchase/audio"
	"driftchase/config"
	"driftchase/event"
	"driftchase/level"
	"driftchase/logging"
	"driftchase/prefs"
	"driftchase/race"
	"driftchase/vehicle"
)

// tui owns the terminal and the race running in it
type tui struct {
	screen tcell.Screen
	race   *race.Race
	input  heldInput
	prefs  *prefs.Store
	audio  *audio.Manager
	log    zerolog.Logger
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "config file")
	levelName := flag.String("level", "", "level to race (default: last selected)")
	carName := flag.String("car", "", "player car (default: last selected)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// The terminal belongs to the screen, so logs only go to the session file.
	lc := cfg.Logging()
	log, closeLog, err := logging.Setup(logging.Options{Level: lc.Level, Writer: io.Discard}, lc.Dir, "drifttui", time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, "log file unavailable:", err)
	}
	defer closeLog()

	store, err := prefs.Open(cfg.PrefsPath(), log)
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := raceOptions(cfg, store, *levelName, *carName, log)
	if err != nil {
		return err
	}

	ac := cfg.Audio()
	sound := audio.New(audio.Options{SampleRate: ac.SampleRate, Volume: ac.Volume}, log)
	if ac.Enabled {
		_ = sound.Init()
	}
	defer sound.Close()

	t := &tui{prefs: store, audio: sound, log: log}
	opts.Bus = event.NewBus()
	sound.Attach(opts.Bus)
	opts.Bus.Subscribe(event.RaceWon, t.recordWin)

	t.race, err = race.New(opts)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	t.screen = screen

	log.Info().Str("level", opts.Level.Name).Str("car", opts.PlayerCar.Name).Msg("race started")
	t.loop()
	log.Info().Str("summary", t.race.Summary().String()).Msg("bye")
	return nil
}

// raceOptions resolves the level and car from the flags, falling back to the stored selection
func raceOptions(cfg *config.Config, store *prefs.Store, levelName, carName string, log zerolog.Logger) (race.Options, error) {
	var err error
	if levelName == "" {
		if levelName, err = store.String(prefs.KeySelectedLevel, level.DefaultLevel); err != nil {
			return race.Options{}, err
		}
	}
	if carName == "" {
		if carName, err = store.String(prefs.KeySelectedCar, vehicle.DefaultCar); err != nil {
			return race.Options{}, err
		}
	}

	lvl, err := level.Lookup(levelName)
	if err != nil {
		return race.Options{}, err
	}
	player, err := vehicle.Lookup(carName)
	if err != nil {
		return race.Options{}, err
	}
	chaser, err := vehicle.Lookup("Chaser")
	if err != nil {
		return race.Options{}, err
	}

	pursuitParams, err := cfg.Pursuit()
	if err != nil {
		return race.Options{}, err
	}
	driftParams, err := cfg.Drift()
	if err != nil {
		return race.Options{}, err
	}
	return race.Options{
		Level:     lvl,
		PlayerCar: player,
		ChaserCar: chaser,
		Pursuit:   pursuitParams,
		Drift:     driftParams,
		Session:   cfg.Session(),
		Seed:      cfg.Seed(),
		Logger:    log,
	}, nil
}

func (t *tui) recordWin(e event.Event) {
	name := t.race.Level().Name
	better, err := t.prefs.RecordTime(name, e.FinalTime)
	if err != nil {
		t.log.Warn().Err(err).Msg("could not record time")
		return
	}
	if better {
		t.log.Info().Str("level", name).Float64("time", e.FinalTime).Msg("new best time")
	}
}

func (t *tui) loop() {
	ticker := time.NewTicker(time.Duration(race.DT * float64(time.Second)))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			if !t.handle(ev) {
				return
			}
		case <-ticker.C:
			t.race.Step(t.input.sample(race.DT))
			render(t.screen, t.race)
			t.screen.Show()
		}
	}
}

// handle reports false when the player quits
func (t *tui) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if t.input.press(ev) {
			return true
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'r':
				t.audio.StopSkid()
				t.input = heldInput{}
				t.race.Restart()
			}
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}
