package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"driftchase/event"
)

// Recorder turns race events into metric updates
type Recorder struct {
	level attribute.KeyValue

	drifts     metric.Int64Counter
	coins      metric.Int64Counter
	races      metric.Int64Counter
	points     metric.Float64Histogram
	finishTime metric.Float64Histogram
}

// NewRecorder creates the instruments on m. Level tags every data point.
func NewRecorder(m metric.Meter, level string) (*Recorder, error) {
	r := &Recorder{level: attribute.String("level", level)}
	var err error

	r.drifts, err = m.Int64Counter(
		"driftchase.drifts",
		metric.WithDescription("Completed drifts"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drifts counter: %w", err)
	}

	r.coins, err = m.Int64Counter(
		"driftchase.coins",
		metric.WithDescription("Coins collected"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create coins counter: %w", err)
	}

	r.races, err = m.Int64Counter(
		"driftchase.races",
		metric.WithDescription("Races by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create races counter: %w", err)
	}

	r.points, err = m.Float64Histogram(
		"driftchase.drift.points",
		metric.WithDescription("Points banked per drift"),
		metric.WithExplicitBucketBoundaries(10, 50, 100, 250, 500, 1000, 2500),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drift points histogram: %w", err)
	}

	r.finishTime, err = m.Float64Histogram(
		"driftchase.race.time",
		metric.WithDescription("Race clock at the outcome"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create race time histogram: %w", err)
	}
	return r, nil
}

// Attach subscribes the recorder to a bus
func (r *Recorder) Attach(bus *event.Bus) {
	bus.SubscribeAll(r.Record)
}

// Record updates the instruments for one event
func (r *Recorder) Record(e event.Event) {
	ctx := context.Background()
	switch e.Type {
	case event.RaceStarted:
		r.races.Add(ctx, 1, metric.WithAttributes(r.level, attribute.String("outcome", "started")))
	case event.DriftEnded:
		r.drifts.Add(ctx, 1, metric.WithAttributes(r.level))
		r.points.Record(ctx, e.Points, metric.WithAttributes(r.level))
	case event.CoinCollected:
		r.coins.Add(ctx, 1, metric.WithAttributes(r.level))
	case event.RaceWon:
		r.races.Add(ctx, 1, metric.WithAttributes(r.level, attribute.String("outcome", "won")))
		r.finishTime.Record(ctx, e.FinalTime, metric.WithAttributes(r.level, attribute.String("outcome", "won")))
	case event.GameOver:
		r.races.Add(ctx, 1, metric.WithAttributes(r.level, attribute.String("outcome", "lost")))
		r.finishTime.Record(ctx, e.FinalTime, metric.WithAttributes(r.level, attribute.String("outcome", "lost")))
	}
}
