// Package metrics exposes credstore operation and HTTP metrics through OpenTelemetry,
// exported in Prometheus format on a dedicated registry.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	apperrors "github.com/allisson/credstore/internal/errors"
)

// ServiceName is reported as the service.name resource attribute.
const ServiceName = "credstore"

// Provider owns the meter provider and the Prometheus registry it writes to.
type Provider struct {
	meterProvider *metric.MeterProvider
	exporter      *promexporter.Exporter
	registry      *prometheus.Registry
	namespace     string
}

// NewProvider builds a meter provider whose readings are served by Handler.
// The namespace prefixes every instrument created through this package.
func NewProvider(namespace string) (*Provider, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create prometheus exporter")
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("service.namespace", namespace),
	)

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(exporter),
		metric.WithResource(res),
	)

	return &Provider{
		meterProvider: meterProvider,
		exporter:      exporter,
		registry:      registry,
		namespace:     namespace,
	}, nil
}

// Handler serves the registry for Prometheus scraping.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// MeterProvider returns the underlying OpenTelemetry meter provider.
func (p *Provider) MeterProvider() *metric.MeterProvider {
	return p.meterProvider
}

// Namespace returns the instrument name prefix.
func (p *Provider) Namespace() string {
	return p.namespace
}

// Shutdown flushes pending readings.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
