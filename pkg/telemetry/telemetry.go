// Package telemetry installs the OpenTelemetry tracer provider that records
// the relay's upstream spans.
package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/papercomputeco/pairwise/pkg/utils"
)

const serviceName = "pairwise"

// Shutdown flushes buffered spans and stops the provider.
type Shutdown func(context.Context) error

// Setup registers a global tracer provider that writes finished spans to w
// as indented JSON. Without Setup spans go to the no-op provider.
func Setup(w io.Writer) (Shutdown, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	return install(sdktrace.WithBatcher(exporter)), nil
}

// SetupWithExporter registers a provider that exports synchronously to exp.
// Tests use it with an in-memory exporter.
func SetupWithExporter(exp sdktrace.SpanExporter) Shutdown {
	return install(sdktrace.WithSyncer(exp))
}

func install(opt sdktrace.TracerProviderOption) Shutdown {
	tp := sdktrace.NewTracerProvider(
		opt,
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", utils.Version),
		)),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown
}
