package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/anujsoni3/NovaScore/internal/common/logger"
)

// Observability records view-level operations through an OpenTelemetry meter
// exported in prometheus format.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	opCounter     otelmetric.Int64Counter
	opDuration    otelmetric.Float64Histogram
}

// New registers the exporter with reg, or the default registerer when reg is nil.
// On failure it logs and returns a recorder that drops everything.
func New(serviceName string, reg prometheus.Registerer, log logger.Logger) *Observability {
	opts := []otelprom.Option{}
	if reg != nil {
		opts = append(opts, otelprom.WithRegisterer(reg))
	}
	exporter, err := otelprom.New(opts...)
	if err != nil {
		log.Warn("failed to create prometheus exporter", map[string]interface{}{"error": err.Error()})
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	opCounter, _ := meter.Int64Counter(
		"views.operations",
		otelmetric.WithDescription("Number of view operations"),
	)

	opDuration, _ := meter.Float64Histogram(
		"views.duration",
		otelmetric.WithDescription("View operation duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		opCounter:     opCounter,
		opDuration:    opDuration,
	}
}

// NewNoop returns a recorder that drops everything.
func NewNoop() *Observability {
	return &Observability{}
}

func (o *Observability) RecordOperation(ctx context.Context, view, operation, status string) {
	if o == nil || o.opCounter == nil {
		return
	}
	o.opCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("view", view),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordDuration(ctx context.Context, view, operation string, duration time.Duration, status string) {
	if o == nil || o.opDuration == nil {
		return
	}
	o.opDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("view", view),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

// Track records both the count and the duration of an operation that started at started.
func (o *Observability) Track(ctx context.Context, view, operation string, started time.Time, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	o.RecordOperation(ctx, view, operation, status)
	o.RecordDuration(ctx, view, operation, time.Since(started), status)
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
