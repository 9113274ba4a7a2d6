package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"Warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Writer: &buf})

	log.Debug().Msg("hidden")
	log.Info().Str("car", "Car1").Msg("race started")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "race started", line["message"])
	assert.Equal(t, "Car1", line["car"])
	assert.Equal(t, "info", line["level"])
	assert.Contains(t, line, "time")
}

func TestNewCopiesToFile(t *testing.T) {
	var console, file bytes.Buffer
	log := New(Options{Level: "debug", Console: true, Writer: &console, File: &file})
	log.Debug().Int("coins", 3).Msg("coin collected")

	assert.Contains(t, console.String(), "coin collected")
	assert.Contains(t, file.String(), "coins=3")
	assert.NotContains(t, file.String(), "\x1b[")
}

func TestSampledLetsBurstThrough(t *testing.T) {
	var buf bytes.Buffer
	log := Sampled(New(Options{Level: "info", Writer: &buf}))
	for i := 0; i < 5; i++ {
		log.Info().Msg("bump")
	}
	assert.Equal(t, 5, bytes.Count(buf.Bytes(), []byte("\n")))
	assert.Contains(t, buf.String(), `"sampled":true`)
}

func TestFilePath(t *testing.T) {
	start := time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)
	assert.Equal(t, filepath.Join("logs", "driftchase.20260212_213836.log"), FilePath("logs", "driftchase", start))

	dir := filepath.Join(t.TempDir(), "nested")
	f, err := OpenFile(dir, "driftchase", start)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	_, err = os.Stat(FilePath(dir, "driftchase", start))
	assert.NoError(t, err)
}

func TestSetupWithoutDirSkipsFile(t *testing.T) {
	var buf bytes.Buffer
	log, closeFile, err := Setup(Options{Level: "info", Writer: &buf}, "", "driftchase", time.Now())
	require.NoError(t, err)
	log.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NoError(t, closeFile())
}

func TestSetupOpensSessionFile(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	var buf bytes.Buffer

	log, closeFile, err := Setup(Options{Level: "debug", Writer: &buf}, dir, "headless", start)
	require.NoError(t, err)
	log.Debug().Msg("to file")
	require.NoError(t, closeFile())

	data, err := os.ReadFile(FilePath(dir, "headless", start))
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
