package telemetry

import (
	"context"
	"discord-finder/internal/configutil"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// OtlpConnConfig points one signal at a collector. GrpcEndpoint takes precedence over
// HttpEndpoint when both are set.
type OtlpConnConfig struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

func (c OtlpConnConfig) transport() (string, string) {
	if c.GrpcEndpoint != "" {
		return "grpc", c.GrpcEndpoint
	}
	return "http", c.HttpEndpoint
}

type OtlpConfig struct {
	Traces  OtlpConnConfig `json:"traces"`
	Metrics OtlpConnConfig `json:"metrics"`
}

// Config is the contents of telemetry.json5.
type Config struct {
	Otlp OtlpConfig `json:"otlp"`
}

const (
	setupTimeout         = 15 * time.Second
	exporterTimeout      = 3 * time.Second
	metricExportInterval = 5 * time.Second
)

type Telemetry struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

// Shutdown flushes both providers, spans and metrics still buffered are exported.
func (t Telemetry) Shutdown(ctx context.Context) error {
	return errors.Join(
		t.TracerProvider.Shutdown(ctx),
		t.MeterProvider.Shutdown(ctx),
	)
}

// SetupFromEnv is Setup with the first telemetry.json5 found from the cwd upwards. When
// there is none the returned error satisfies os.IsNotExist.
func SetupFromEnv(ctx context.Context, serviceName string) (Telemetry, error) {
	config, err := configutil.ReadRecursively[Config]("telemetry.json5")
	if err != nil {
		return Telemetry{}, err
	}
	return Setup(ctx, serviceName, config)
}

// Setup creates otlp exporting trace and meter providers and installs them as the
// global providers, so that otel.Tracer and otel.Meter export through them.
func Setup(ctx context.Context, serviceName string, config Config) (Telemetry, error) {
	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return Telemetry{}, fmt.Errorf("resource: %w", err)
	}

	spanExporter, err := newSpanExporter(ctx, config.Otlp.Traces)
	if err != nil {
		return Telemetry{}, fmt.Errorf("trace exporter: %w", err)
	}
	tracerProvider := trace.NewTracerProvider(
		trace.WithBatcher(spanExporter),
		trace.WithResource(res),
	)

	metricExporter, err := newMetricExporter(ctx, config.Otlp.Metrics)
	if err != nil {
		return Telemetry{}, errors.Join(
			fmt.Errorf("metric exporter: %w", err),
			tracerProvider.Shutdown(context.Background()),
		)
	}
	meterProvider := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(
			metricExporter,
			metric.WithInterval(metricExportInterval),
		)),
		metric.WithResource(res),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	return Telemetry{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
	}, nil
}

func newSpanExporter(ctx context.Context, conn OtlpConnConfig) (trace.SpanExporter, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterTimeout)
	defer cancel()

	transport, endpoint := conn.transport()
	slog.Debug("exporting traces", "transport", transport, "endpoint", endpoint)
	if transport == "grpc" {
		return otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(endpoint),
			otlptracegrpc.WithHeaders(conn.Headers),
		)
	}
	return otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpointURL(endpoint),
		otlptracehttp.WithHeaders(conn.Headers),
	)
}

func newMetricExporter(ctx context.Context, conn OtlpConnConfig) (metric.Exporter, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterTimeout)
	defer cancel()

	transport, endpoint := conn.transport()
	slog.Debug("exporting metrics", "transport", transport, "endpoint", endpoint)
	if transport == "grpc" {
		return otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(endpoint),
			otlpmetricgrpc.WithHeaders(conn.Headers),
		)
	}
	return otlpmetrichttp.New(
		ctx,
		otlpmetrichttp.WithEndpointURL(endpoint),
		otlpmetrichttp.WithHeaders(conn.Headers),
	)
}

// OtelAPI forwards every report to an inner API and additionally records
// broken/warning reports and counts on the global OpenTelemetry meter.
type OtelAPI struct {
	inner    API
	failures otelmetric.Int64Counter
	counts   otelmetric.Int64Gauge
}

func NewOtelAPI(meterName string, inner API) (OtelAPI, error) {
	meter := otel.Meter(meterName)
	failures, err := meter.Int64Counter(
		"reports",
		otelmetric.WithDescription("broken components and warnings reported"),
	)
	if err != nil {
		return OtelAPI{}, err
	}
	counts, err := meter.Int64Gauge(
		"counts",
		otelmetric.WithDescription("point in time counts reported by components"),
	)
	if err != nil {
		return OtelAPI{}, err
	}
	return OtelAPI{inner: inner, failures: failures, counts: counts}, nil
}

func (o OtelAPI) ReportBroken(id string, params ...any) {
	o.failures.Add(context.Background(), 1, otelmetric.WithAttributes(
		attribute.String("id", id),
		attribute.String("kind", "broken"),
	))
	o.inner.ReportBroken(id, params...)
}

func (o OtelAPI) ReportWarning(id string, params ...any) {
	o.failures.Add(context.Background(), 1, otelmetric.WithAttributes(
		attribute.String("id", id),
		attribute.String("kind", "warning"),
	))
	o.inner.ReportWarning(id, params...)
}

func (o OtelAPI) ReportDebug(msg string, params ...any) {
	o.inner.ReportDebug(msg, params...)
}

func (o OtelAPI) ReportCount(id string, count int64) {
	o.counts.Record(context.Background(), count, otelmetric.WithAttributes(
		attribute.String("id", id),
	))
	o.inner.ReportCount(id, count)
}
