package tracing

import (
	"context"
	"testing"
	"time"
)

func shutdown(t *testing.T, p *Provider) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestNewProvider_DisabledIsInert(t *testing.T) {
	provider, err := NewProvider(Config{ServiceName: "mycosmetic-api", Enabled: false})
	if err != nil {
		t.Fatalf("expected no error for disabled tracing, got %v", err)
	}
	if provider.IsEnabled() {
		t.Error("expected tracing to be disabled")
	}

	// Shutdown on the inert provider is a no-op
	shutdown(t, provider)
}

func TestNewProvider_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing service name", Config{Enabled: true, SamplingRate: 0.1}},
		{"negative sampling rate", Config{ServiceName: "mycosmetic-api", Enabled: true, SamplingRate: -0.1}},
		{"sampling rate above 1", Config{ServiceName: "mycosmetic-api", Enabled: true, SamplingRate: 1.5}},
		{"unsupported exporter", Config{ServiceName: "mycosmetic-api", Enabled: true, ExporterType: "jaeger", SamplingRate: 0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProvider(tt.cfg); err == nil {
				t.Error("expected config error")
			}
		})
	}
}

func TestNewProvider_Exporters(t *testing.T) {
	tests := []struct {
		name         string
		exporterType string
		samplingRate float64
		endpoint     string
	}{
		{"otlp-http sampled", "otlp-http", 0.1, "localhost:4318"},
		{"otlp-grpc always", "otlp-grpc", 1.0, "localhost:4317"},
		{"default exporter never", "", 0.0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(Config{
				ServiceName:  "mycosmetic-api",
				Enabled:      true,
				Environment:  "test",
				ExporterType: tt.exporterType,
				OTLPEndpoint: tt.endpoint,
				SamplingRate: tt.samplingRate,
				InsecureMode: true,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !provider.IsEnabled() {
				t.Error("expected tracing to be enabled")
			}
			shutdown(t, provider)
		})
	}
}

func TestProvider_TracerCreatesSpans(t *testing.T) {
	provider, err := NewProvider(Config{
		ServiceName:  "mycosmetic-api",
		Enabled:      true,
		Environment:  "test",
		ExporterType: "otlp-http",
		SamplingRate: 1.0,
		InsecureMode: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer shutdown(t, provider)

	tracer := provider.Tracer("mycosmetic")
	_, span := tracer.Start(context.Background(), "compile_score_breakdown")
	if span == nil {
		t.Fatal("expected non-nil span")
	}
	span.End()
}
