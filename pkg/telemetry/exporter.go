package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"google.golang.org/grpc/credentials/insecure"
)

// createExporter creates an OTLP trace exporter; gRPC unless the protocol
// asks for HTTP.
func createExporter(ctx context.Context, cfg *Config) (*otlptrace.Exporter, error) {
	if isHTTPProtocol(cfg.Protocol) {
		return createHTTPExporter(ctx, cfg)
	}
	return createGRPCExporter(ctx, cfg)
}

func isHTTPProtocol(protocol string) bool {
	switch strings.ToLower(protocol) {
	case "http/protobuf", "http":
		return true
	default:
		return false
	}
}

// hostPort strips a URL scheme from endpoint and reports whether it was
// plain http.
func hostPort(endpoint string) (string, bool) {
	if strings.HasPrefix(endpoint, "http://") {
		return strings.TrimPrefix(endpoint, "http://"), true
	}
	return strings.TrimPrefix(endpoint, "https://"), false
}

// createGRPCExporter creates a gRPC-based OTLP exporter.
func createGRPCExporter(ctx context.Context, cfg *Config) (*otlptrace.Exporter, error) {
	opts := []otlptracegrpc.Option{}

	plain := false
	if cfg.Endpoint != "" {
		var endpoint string
		endpoint, plain = hostPort(cfg.Endpoint)
		opts = append(opts, otlptracegrpc.WithEndpoint(endpoint))
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
	}
	if cfg.Insecure || plain {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
	}

	return otlptracegrpc.New(ctx, opts...)
}

// createHTTPExporter creates an HTTP-based OTLP exporter.
func createHTTPExporter(ctx context.Context, cfg *Config) (*otlptrace.Exporter, error) {
	opts := []otlptracehttp.Option{}

	plain := false
	if cfg.Endpoint != "" {
		var endpoint string
		endpoint, plain = hostPort(cfg.Endpoint)
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}
	if cfg.Insecure || plain {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	return otlptracehttp.New(ctx, opts...)
}
