package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftchase/drift"
	"driftchase/pursuit"
	"driftchase/world"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	path := writeConfig(t, "driftchase.json", `{
		"logLevel": "debug",
		"window": { "width": 800, "fullscreen": true },
		"pursuit": { "followDistance": 20, "predictionTime": 0.5 },
		"drift": { "pointsPerSecond": 75 }
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File())
	assert.Equal(t, "debug", cfg.LogLevel())

	w := cfg.Window()
	assert.Equal(t, 800, w.Width)
	assert.Equal(t, 720, w.Height)
	assert.True(t, w.Fullscreen)

	p, err := cfg.Pursuit()
	require.NoError(t, err)
	assert.Equal(t, 20.0, p.FollowDistance)
	assert.Equal(t, 0.5, p.PredictionTime)
	assert.Equal(t, 80.0, p.MaxSpeed)
	assert.Equal(t, world.LayerWall|world.LayerProp, p.ObstacleMask)

	d, err := cfg.Drift()
	require.NoError(t, err)
	assert.Equal(t, 75.0, d.PointsPerSecond)
	assert.Equal(t, 5.0, d.MaxMultiplier)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "settings.yaml", "session:\n  totalCoins: 5\naudio:\n  enabled: false\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Session().TotalCoins)
	assert.Equal(t, 3.0, cfg.Session().WinMessageDuration)
	assert.False(t, cfg.Audio().Enabled)
	assert.Equal(t, 44100, cfg.Audio().SampleRate)
}

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, "driftchase.json", `{}`))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel())
	assert.True(t, cfg.Logging().Console)
	assert.Empty(t, cfg.Logging().Dir)
	assert.Equal(t, "Drift Chase", cfg.Window().Title)
	assert.Equal(t, 1280, cfg.Window().Width)
	assert.False(t, cfg.Telemetry().Enabled)
	assert.Equal(t, "driftchase", cfg.Telemetry().ServiceName)
	assert.NotEmpty(t, cfg.PrefsPath())
	assert.Equal(t, int64(1), cfg.Seed())

	p, err := cfg.Pursuit()
	require.NoError(t, err)
	assert.Equal(t, pursuit.DefaultParams(), p)

	d, err := cfg.Drift()
	require.NoError(t, err)
	assert.Equal(t, drift.DefaultParams(), d)

	assert.Equal(t, 10, cfg.Session().TotalCoins)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_SearchWithoutFileKeepsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.File())
	assert.Equal(t, "info", cfg.LogLevel())
}

func TestLoad_BrokenFile(t *testing.T) {
	_, err := Load(writeConfig(t, "driftchase.json", `{"logLevel": `))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DRIFTCHASE_LOGLEVEL", "warn")
	t.Setenv("DRIFTCHASE_PURSUIT_FOLLOWDISTANCE", "9")

	cfg, err := Load(writeConfig(t, "driftchase.json", `{"logLevel": "debug"}`))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel())

	p, err := cfg.Pursuit()
	require.NoError(t, err)
	assert.Equal(t, 9.0, p.FollowDistance)
}

func TestInvalidTuningIsReported(t *testing.T) {
	cfg, err := Load(writeConfig(t, "driftchase.json", `{
		"pursuit": { "followDistance": -1 },
		"drift": { "minAngle": 70 }
	}`))
	require.NoError(t, err)

	_, err = cfg.Pursuit()
	assert.True(t, errors.Is(err, pursuit.ErrInvalidParams))
	_, err = cfg.Drift()
	assert.True(t, errors.Is(err, drift.ErrInvalidParams))
}

func TestSetOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, "driftchase.json", `{}`))
	require.NoError(t, err)
	cfg.Set("logLevel", "trace")
	cfg.Set("race.seed", 42)
	assert.Equal(t, "trace", cfg.GetString("logLevel"))
	assert.Equal(t, 42, cfg.GetInt("race.seed"))
	assert.Equal(t, int64(42), cfg.Seed())
	assert.False(t, cfg.GetBool("window.fullscreen"))
}
