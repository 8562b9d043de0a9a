package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"ctchen222/tictactoe-bot/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ShutdownFunc flushes and stops every provider installed by InitOtel.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// InitOtel initializes an OpenTelemetry SDK with configurations for traces, metrics and logs.
// When telemetry is disabled it installs nothing and returns a no-op shutdown.
func InitOtel(ctx context.Context, conf config.Telemetry) (ShutdownFunc, error) {
	if !conf.Enabled && !conf.Stdout {
		return noopShutdown, nil
	}

	res, err := newResource(conf)
	if err != nil {
		return nil, err
	}

	// --- Set Propagators ---
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	traceOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if conf.Stdout {
		stdoutTraceExporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(stdoutTraceExporter))
	}

	if !conf.Enabled {
		tp := sdktrace.NewTracerProvider(traceOpts...)
		otel.SetTracerProvider(tp)
		return func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return tp.Shutdown(ctx)
		}, nil
	}

	// --- Create gRPC connection ---
	conn, err := grpc.NewClient(conf.Endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to OTLP collector: %w", err)
	}

	// --- Setup Traces ---
	otlpTraceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create OTLP trace exporter: %w", err), conn.Close())
	}
	tp := sdktrace.NewTracerProvider(append(traceOpts, sdktrace.WithBatcher(otlpTraceExporter))...)
	otel.SetTracerProvider(tp)

	// --- Setup Metrics ---
	otlpMetricExporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create OTLP metric exporter: %w", err), tp.Shutdown(ctx), conn.Close())
	}
	mp := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(otlpMetricExporter)),
		metric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	// --- Setup Logs ---
	otlpLogExporter, err := otlploggrpc.New(ctx, otlploggrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create OTLP log exporter: %w", err), tp.Shutdown(ctx), mp.Shutdown(ctx), conn.Close())
	}
	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(otlpLogExporter)),
		sdklog.WithResource(res),
	)
	global.SetLoggerProvider(lp)

	// --- Shutdown function ---
	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		var errs []error
		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown TracerProvider: %w", err))
		}
		if err := mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown MeterProvider: %w", err))
		}
		if err := lp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown LoggerProvider: %w", err))
		}

		// Close the gRPC connection
		if err := conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close gRPC connection: %w", err))
		}
		return errors.Join(errs...)
	}

	return shutdown, nil
}

func newResource(conf config.Telemetry) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(conf.ServiceName),
			semconv.ServiceVersion(conf.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
