// Package telemetry records race metrics through OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

const instrumentationName = "driftchase/telemetry"

// Config holds telemetry settings
type Config struct {
	Enabled     bool
	ServiceName string
}

// Provider owns the meter provider. When disabled every meter is a no-op.
type Provider struct {
	config Config
	reader *sdkmetric.ManualReader
	mp     *sdkmetric.MeterProvider
}

// New creates a provider. Metrics are held in memory and read with Collect.
func New(cfg Config) *Provider {
	p := &Provider{config: cfg}
	if !cfg.Enabled {
		return p
	}
	p.reader = sdkmetric.NewManualReader()
	p.mp = sdkmetric.NewMeterProvider(sdkmetric.WithReader(p.reader))
	return p
}

// Enabled reports whether metrics are recorded
func (p *Provider) Enabled() bool {
	return p.mp != nil
}

// Meter returns the meter for the game's instruments
func (p *Provider) Meter() metric.Meter {
	if p.mp == nil {
		return noop.Meter{}
	}
	return p.mp.Meter(instrumentationName)
}

// Collect reads the current metric values
func (p *Provider) Collect(ctx context.Context) (metricdata.ResourceMetrics, error) {
	var rm metricdata.ResourceMetrics
	if p.reader == nil {
		return rm, nil
	}
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return rm, fmt.Errorf("collect metrics: %w", err)
	}
	return rm, nil
}

// Shutdown flushes and stops the provider
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.mp == nil {
		return nil
	}
	if err := p.mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("metrics shutdown failed: %w", err)
	}
	return nil
}

// Totals flattens collected sums into name → value, adding every data point.
// Histograms contribute their sum under "<name>.sum" and count under "<name>.count".
func Totals(rm metricdata.ResourceMetrics) map[string]float64 {
	out := make(map[string]float64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += float64(dp.Value)
				}
			case metricdata.Sum[float64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					out[m.Name+".sum"] += dp.Sum
					out[m.Name+".count"] += float64(dp.Count)
				}
			}
		}
	}
	return out
}
