package telemetry

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "github.com/jar-analysis/pkg/errors"
)

func TestInit_Disabled(t *testing.T) {
	ctx := context.Background()

	for _, cfg := range []*Config{nil, DefaultConfig()} {
		shutdown, err := Init(ctx, cfg)
		if err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
		if shutdown == nil {
			t.Fatal("Expected shutdown function to be non-nil")
		}
		if Enabled() {
			t.Error("Expected telemetry to stay disabled")
		}
		if err := shutdown(ctx); err != nil {
			t.Errorf("Expected no error on shutdown, got %v", err)
		}
	}
}

func TestInit_EnabledHTTP(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Protocol = "http"
	cfg.Endpoint = "http://127.0.0.1:1"

	shutdown, err := Init(ctx, cfg)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !Enabled() {
		t.Error("Expected telemetry to be enabled after Init")
	}

	// Nothing was recorded, so shutdown has nothing to flush.
	_ = shutdown(ctx)
	if Enabled() {
		t.Error("Expected telemetry to be disabled after shutdown")
	}
}

func TestRecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer(InstrumentationName).Start(context.Background(), "analyze")
	RecordError(span, nil)
	RecordError(span, errors.New("boom"))
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Description != "boom" {
		t.Errorf("Expected error status boom, got %q", spans[0].Status().Description)
	}
	if len(spans[0].Events()) != 1 {
		t.Errorf("Expected one recorded error event, got %d", len(spans[0].Events()))
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		sampler string
		arg     string
		want    string
	}{
		{"always_on", "", "AlwaysOnSampler"},
		{"always_off", "", "AlwaysOffSampler"},
		{"", "", "AlwaysOnSampler"},
		{"traceidratio", "0.5", "TraceIDRatioBased{0.5}"},
		{"traceidratio", "", "AlwaysOnSampler"},
		{"TraceIDRatio", " 0.25 ", "TraceIDRatioBased{0.25}"},
	}

	for _, tt := range tests {
		sampler, err := createSampler(&Config{Sampler: tt.sampler, SamplerArg: tt.arg})
		if err != nil {
			t.Errorf("createSampler(%q, %q) failed: %v", tt.sampler, tt.arg, err)
			continue
		}
		if got := sampler.Description(); got != tt.want {
			t.Errorf("createSampler(%q, %q) = %s, want %s", tt.sampler, tt.arg, got, tt.want)
		}
	}
}

func TestCreateSampler_Invalid(t *testing.T) {
	tests := []struct {
		sampler string
		arg     string
	}{
		{"unknown", ""},
		{"traceidratio", "bad"},
		{"traceidratio", "1.5"},
		{"parentbased_traceidratio", "-0.1"},
	}

	for _, tt := range tests {
		_, err := createSampler(&Config{Sampler: tt.sampler, SamplerArg: tt.arg})
		if apperrors.GetErrorCode(err) != apperrors.CodeConfigError {
			t.Errorf("createSampler(%q, %q) error = %v, want CONFIG_ERROR", tt.sampler, tt.arg, err)
		}
	}
}

func TestInit_InvalidSampler(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Sampler = "traceidratio"
	cfg.SamplerArg = "2"

	shutdown, err := Init(context.Background(), cfg)
	if apperrors.GetErrorCode(err) != apperrors.CodeConfigError {
		t.Fatalf("Init error = %v, want CONFIG_ERROR", err)
	}
	if Enabled() {
		t.Error("telemetry should stay disabled after a failed Init")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestParseRatio(t *testing.T) {
	tests := map[string]float64{"": 1, "0": 0, "1": 1, "0.1": 0.1}
	for in, want := range tests {
		got, err := parseRatio(in)
		if err != nil || got != want {
			t.Errorf("parseRatio(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}

func TestHostPort(t *testing.T) {
	tests := []struct {
		in    string
		host  string
		plain bool
	}{
		{"http://collector:4318", "collector:4318", true},
		{"https://collector:4318", "collector:4318", false},
		{"collector:4317", "collector:4317", false},
	}
	for _, tt := range tests {
		host, plain := hostPort(tt.in)
		if host != tt.host || plain != tt.plain {
			t.Errorf("hostPort(%q) = %q, %v; want %q, %v", tt.in, host, plain, tt.host, tt.plain)
		}
	}
}
