package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"driftchase/event"
)

func TestRecorderCountsEvents(t *testing.T) {
	p := New(Config{Enabled: true, ServiceName: "test"})
	require.True(t, p.Enabled())
	defer p.Shutdown(context.Background())

	rec, err := NewRecorder(p.Meter(), "Harbor")
	require.NoError(t, err)

	bus := event.NewBus()
	rec.Attach(bus)
	bus.Publish(event.Event{Type: event.RaceStarted})
	bus.Publish(event.Event{Type: event.CoinCollected})
	bus.Publish(event.Event{Type: event.CoinCollected})
	bus.Publish(event.Event{Type: event.DriftEnded, Points: 80})
	bus.Publish(event.Event{Type: event.DriftEnded, Points: 120})
	bus.Publish(event.Event{Type: event.GameOver, FinalTime: 12.5})
	bus.Flush()

	rm, err := p.Collect(context.Background())
	require.NoError(t, err)
	totals := Totals(rm)

	assert.Equal(t, 2.0, totals["driftchase.coins"])
	assert.Equal(t, 2.0, totals["driftchase.drifts"])
	assert.Equal(t, 2.0, totals["driftchase.races"])
	assert.InDelta(t, 200, totals["driftchase.drift.points.sum"], 1e-9)
	assert.Equal(t, 2.0, totals["driftchase.drift.points.count"])
	assert.InDelta(t, 12.5, totals["driftchase.race.time.sum"], 1e-9)
}

func TestRacesSplitByOutcome(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	rec, err := NewRecorder(mp.Meter("test"), "Canyon")
	require.NoError(t, err)
	rec.Record(event.Event{Type: event.RaceWon, FinalTime: 30})
	rec.Record(event.Event{Type: event.RaceWon, FinalTime: 25})
	rec.Record(event.Event{Type: event.GameOver})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	byOutcome := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "driftchase.races" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
				level, _ := dp.Attributes.Value(attribute.Key("level"))
				assert.Equal(t, "Canyon", level.AsString())
				byOutcome[outcome.AsString()] += dp.Value
			}
		}
	}
	assert.Equal(t, map[string]int64{"won": 2, "lost": 1}, byOutcome)
}

func TestDisabledProviderIsSilent(t *testing.T) {
	p := New(Config{})
	assert.False(t, p.Enabled())

	rec, err := NewRecorder(p.Meter(), "Harbor")
	require.NoError(t, err)
	rec.Record(event.Event{Type: event.CoinCollected})

	rm, err := p.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, Totals(rm))
	assert.NoError(t, p.Shutdown(context.Background()))
}
