// Package metrics exports relay and HTTP metrics through OpenTelemetry with a
// Prometheus registry. Business metrics cover dispatches, delivery reports and
// published status events; HTTP metrics cover the public API.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Provider owns the OpenTelemetry meter provider and the Prometheus registry it
// exports to. The registry is private to the relay, so tests can create several
// providers without duplicate registration panics.
type Provider struct {
	meterProvider *metric.MeterProvider
	exporter      *promexporter.Exporter
	registry      *prometheus.Registry
}

// NewProvider creates a Provider that also exports Go runtime and process
// collectors. namespace is not applied here: BusinessMetrics and the HTTP
// middleware prefix their instrument names with it (for example
// "sms_relay_operations_total").
// Returns an error if the Prometheus exporter cannot be created.
func NewProvider(namespace string) (*Provider, error) {
	// Custom registry instead of the global default
	registry := prometheus.NewRegistry()

	// Runtime and process metrics alongside the relay's own
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Exporter that turns OpenTelemetry instruments into Prometheus series
	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	// Meter provider read by the exporter on every scrape
	meterProvider := metric.NewMeterProvider(
		metric.WithReader(exporter),
	)

	return &Provider{
		meterProvider: meterProvider,
		exporter:      exporter,
		registry:      registry,
	}, nil
}

// Handler serves the registry in OpenMetrics format. It is mounted at /metrics on
// the metrics server, never on the public API.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// MeterProvider returns the meter provider used by BusinessMetrics and the HTTP
// middleware to create their instruments.
func (p *Provider) MeterProvider() *metric.MeterProvider {
	return p.meterProvider
}

// Shutdown flushes and stops the meter provider. The container calls it last,
// after the consumer and producers have stopped recording.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
