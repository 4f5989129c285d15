// Package otel wires distributed tracing for the matching engine, grounded
// on the teacher's pkg/otel/otel.go. The teacher exports spans over
// OTLP/gRPC to a collector; this repository carries no gRPC dependency, so
// the exporter here is otel/exporters/stdout/stdouttrace, a real
// still-in-the-otel-ecosystem exporter that needs no RPC stack. Metrics
// and the host/runtime instrumentation the teacher pulls in via
// opentelemetry contrib packages are dropped along with gRPC (see
// DESIGN.md); only tracing is carried.
package otel

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const ServiceMatchingEngine = "matching-engine"

var (
	engineTracer   trace.Tracer
	tracerProvider *sdktrace.TracerProvider
)

// Config holds the tracing configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// Pretty prints human-readable span output instead of compact JSON.
	Pretty bool
}

// Init sets up the global tracer provider and returns a shutdown function.
func Init(cfg Config) (func(), error) {
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "0.1.0"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = ServiceMatchingEngine
	}

	opts := []stdouttrace.Option{}
	if cfg.Pretty {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return func() {}, err
	}

	resource := initResource(cfg.ServiceName, cfg.ServiceVersion)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(1))),
	)
	tracerProvider = tp
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	engineTracer = tp.Tracer(cfg.ServiceName)

	return func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}, nil
}

func initResource(serviceName, serviceVersion string) *sdkresource.Resource {
	res, err := sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewSchemaless(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return sdkresource.Default()
	}
	return res
}

// Tracer returns the matching engine's tracer.
func Tracer() trace.Tracer { return engineTracer }

// TracerProvider returns the process-wide tracer provider.
func TracerProvider() trace.TracerProvider {
	if tracerProvider != nil {
		return tracerProvider
	}
	return otel.GetTracerProvider()
}

// ResetForTesting clears global tracer state between test cases.
func ResetForTesting() {
	engineTracer = nil
	tracerProvider = nil
}

// InitForTesting installs a caller-provided tracer without standing up an
// exporter, used by tests that only care about span structure.
func InitForTesting(tracer trace.Tracer) {
	engineTracer = tracer
}
