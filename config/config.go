// Package config loads game settings from an optional file plus
// DRIFTCHASE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"driftchase/drift"
	"driftchase/pursuit"
	"driftchase/session"
	"driftchase/world"
)

// FileName is searched for when no explicit path is given
const FileName = "driftchase"

// EnvPrefix prefixes environment overrides, DRIFTCHASE_PURSUIT_FOLLOWDISTANCE and so on
const EnvPrefix = "DRIFTCHASE"

// Config wraps the loaded settings
type Config struct {
	v *viper.Viper
}

// Window holds the ebiten window settings
type Window struct {
	Width      int
	Height     int
	Title      string
	Fullscreen bool
}

// Audio holds the mixer settings
type Audio struct {
	Enabled    bool
	SampleRate int
	Volume     float64 // beep volume exponent, 0 is unity
}

// Telemetry holds metric settings
type Telemetry struct {
	Enabled     bool
	ServiceName string
}

// Logging holds logger settings
type Logging struct {
	Level   string
	Console bool
	Dir     string // empty disables the log file
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logConsole", true)
	v.SetDefault("logsDir", "")

	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.title", "Drift Chase")
	v.SetDefault("window.fullscreen", false)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.sampleRate", 44100)
	v.SetDefault("audio.volume", 0.0)

	v.SetDefault("prefs.path", defaultPrefsPath())

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.serviceName", "driftchase")

	v.SetDefault("race.seed", 1)

	p := pursuit.DefaultParams()
	v.SetDefault("pursuit.followDistance", p.FollowDistance)
	v.SetDefault("pursuit.minSpeed", p.MinSpeed)
	v.SetDefault("pursuit.maxSpeed", p.MaxSpeed)
	v.SetDefault("pursuit.steeringSharpness", p.SteeringSharpness)
	v.SetDefault("pursuit.avoidanceDistance", p.AvoidanceDistance)
	v.SetDefault("pursuit.predictionTime", p.PredictionTime)
	v.SetDefault("pursuit.accelerationSensitivity", p.AccelerationSensitivity)
	v.SetDefault("pursuit.brakeSensitivity", p.BrakeSensitivity)
	v.SetDefault("pursuit.corneringSpeedFactor", p.CorneringSpeedFactor)

	d := drift.DefaultParams()
	v.SetDefault("drift.minAngle", d.MinAngle)
	v.SetDefault("drift.maxAngle", d.MaxAngle)
	v.SetDefault("drift.minSpeed", d.MinSpeed)
	v.SetDefault("drift.pointsPerSecond", d.PointsPerSecond)
	v.SetDefault("drift.multiplierGrowth", d.MultiplierGrowth)
	v.SetDefault("drift.maxMultiplier", d.MaxMultiplier)

	s := session.DefaultParams()
	v.SetDefault("session.totalCoins", s.TotalCoins)
	v.SetDefault("session.winMessageDuration", s.WinMessageDuration)
}

func defaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "driftchase.db"
	}
	return filepath.Join(dir, "driftchase", "prefs.db")
}

// Load reads the settings. An empty path searches for driftchase.{json,yaml,toml}
// in the working directory and the user config dir; not finding one keeps the defaults.
// An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "driftchase"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return &Config{v: v}, nil
}

// File returns the config file in use, empty when running on defaults
func (c *Config) File() string {
	return c.v.ConfigFileUsed()
}

// GetString returns a raw string value
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt returns a raw int value
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetBool returns a raw bool value
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// Set overrides a key, used for command line flags
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// Pursuit returns the chaser tuning, validated
func (c *Config) Pursuit() (pursuit.Params, error) {
	p := pursuit.DefaultParams()
	p.FollowDistance = c.v.GetFloat64("pursuit.followDistance")
	p.MinSpeed = c.v.GetFloat64("pursuit.minSpeed")
	p.MaxSpeed = c.v.GetFloat64("pursuit.maxSpeed")
	p.SteeringSharpness = c.v.GetFloat64("pursuit.steeringSharpness")
	p.AvoidanceDistance = c.v.GetFloat64("pursuit.avoidanceDistance")
	p.PredictionTime = c.v.GetFloat64("pursuit.predictionTime")
	p.AccelerationSensitivity = c.v.GetFloat64("pursuit.accelerationSensitivity")
	p.BrakeSensitivity = c.v.GetFloat64("pursuit.brakeSensitivity")
	p.CorneringSpeedFactor = c.v.GetFloat64("pursuit.corneringSpeedFactor")
	p.ObstacleMask = world.LayerWall | world.LayerProp
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("config: %w", err)
	}
	return p, nil
}

// Drift returns the drift scoring tuning, validated
func (c *Config) Drift() (drift.Params, error) {
	d := drift.Params{
		MinAngle:         c.v.GetFloat64("drift.minAngle"),
		MaxAngle:         c.v.GetFloat64("drift.maxAngle"),
		MinSpeed:         c.v.GetFloat64("drift.minSpeed"),
		PointsPerSecond:  c.v.GetFloat64("drift.pointsPerSecond"),
		MultiplierGrowth: c.v.GetFloat64("drift.multiplierGrowth"),
		MaxMultiplier:    c.v.GetFloat64("drift.maxMultiplier"),
	}
	if err := d.Validate(); err != nil {
		return d, fmt.Errorf("config: %w", err)
	}
	return d, nil
}

// Session returns the race rules
func (c *Config) Session() session.Params {
	return session.Params{
		TotalCoins:         c.v.GetInt("session.totalCoins"),
		WinMessageDuration: c.v.GetFloat64("session.winMessageDuration"),
	}
}

// Window returns the window settings
func (c *Config) Window() Window {
	return Window{
		Width:      c.v.GetInt("window.width"),
		Height:     c.v.GetInt("window.height"),
		Title:      c.v.GetString("window.title"),
		Fullscreen: c.v.GetBool("window.fullscreen"),
	}
}

// Audio returns the mixer settings
func (c *Config) Audio() Audio {
	return Audio{
		Enabled:    c.v.GetBool("audio.enabled"),
		SampleRate: c.v.GetInt("audio.sampleRate"),
		Volume:     c.v.GetFloat64("audio.volume"),
	}
}

// Telemetry returns the metric settings
func (c *Config) Telemetry() Telemetry {
	return Telemetry{
		Enabled:     c.v.GetBool("telemetry.enabled"),
		ServiceName: c.v.GetString("telemetry.serviceName"),
	}
}

// Logging returns the logger settings
func (c *Config) Logging() Logging {
	return Logging{
		Level:   c.v.GetString("logLevel"),
		Console: c.v.GetBool("logConsole"),
		Dir:     c.v.GetString("logsDir"),
	}
}

// LogLevel is shorthand for Logging().Level
func (c *Config) LogLevel() string {
	return c.v.GetString("logLevel")
}

// PrefsPath is the sqlite file holding player preferences
func (c *Config) PrefsPath() string {
	return c.v.GetString("prefs.path")
}

// Seed seeds pickup animation phases
func (c *Config) Seed() int64 {
	return c.v.GetInt64("race.seed")
}
