// Command headless runs one race with the autopilot at the wheel and prints
// the summary. Used for balancing the chaser and drift tuning.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/rs/zerolog"

	"driftchase/config"
	"driftchase/event"
	"driftchase/level"
	"driftchase/logging"
	"driftchase/race"
	"driftchase/telemetry"
	"driftchase/vehicle"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "config file")
	levelName := flag.String("level", level.DefaultLevel, "level to race")
	carName := flag.String("car", vehicle.DefaultCar, "player car")
	seconds := flag.Float64("seconds", 120, "simulated seconds before giving up")
	seed := flag.Int64("seed", 0, "pickup animation seed (0 keeps the config value)")
	logLevel := flag.String("log-level", "", "override the configured log level")
	metrics := flag.Bool("metrics", false, "collect and print race metrics")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.Set("logLevel", *logLevel)
	}
	if *seed != 0 {
		cfg.Set("race.seed", *seed)
	}

	lc := cfg.Logging()
	log, closeLog, err := logging.Setup(logging.Options{Level: lc.Level, Console: lc.Console}, lc.Dir, "headless", time.Now())
	if err != nil {
		log.Warn().Err(err).Msg("log file unavailable")
	}
	defer closeLog()

	opts, err := raceOptions(cfg, *levelName, *carName, log)
	if err != nil {
		return err
	}

	provider := telemetry.New(telemetry.Config{Enabled: *metrics || cfg.Telemetry().Enabled, ServiceName: cfg.Telemetry().ServiceName})
	defer provider.Shutdown(context.Background())
	rec, err := telemetry.NewRecorder(provider.Meter(), opts.Level.Name)
	if err != nil {
		return err
	}
	opts.Bus = event.NewBus()
	rec.Attach(opts.Bus)

	r, err := race.New(opts)
	if err != nil {
		return err
	}

	summary := drive(r, *seconds)
	log.Info().
		Str("outcome", summary.Outcome.String()).
		Float64("time", summary.Time).
		Int("coins", summary.Coins).
		Float64("drift_total", summary.DriftTotal).
		Msg("race finished")
	fmt.Print(summary)

	if provider.Enabled() {
		rm, err := provider.Collect(context.Background())
		if err != nil {
			return err
		}
		for name, v := range telemetry.Totals(rm) {
			fmt.Printf("  %-28s %g\n", name, v)
		}
	}
	return nil
}

func raceOptions(cfg *config.Config, levelName, carName string, log zerolog.Logger) (race.Options, error) {
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

// drive steps the race under the autopilot until it is decided or the time runs out
func drive(r *race.Race, seconds float64) race.Summary {
	pilot := &race.Autopilot{}
	limit := int(math.Round(seconds / race.DT))
	for i := 0; i < limit && !r.Session().Finished(); i++ {
		r.Step(pilot.Input(r.World(), r.Player(), race.DT))
	}
	return r.Summary()
}
