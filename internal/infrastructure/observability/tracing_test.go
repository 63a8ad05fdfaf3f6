package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/janhq/image-generation-api/internal/config"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return recorder
}

func TestSpanHelpers(t *testing.T) {
	recorder := withRecorder(t)

	ctx, span := StartSpan(context.Background(), "fal.Generate")
	AddSpanAttributes(ctx, attribute.Int("image.num_images", 2))
	RecordError(ctx, errors.New("boom"))

	assert.Len(t, GetTraceID(ctx), 32)
	assert.Len(t, GetSpanID(ctx), 16)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "fal.Generate", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.Int("image.num_images", 2))
}

func TestHelpers_NoSpan(t *testing.T) {
	ctx := context.Background()
	AddSpanAttributes(ctx, attribute.String("k", "v"))
	RecordError(ctx, errors.New("ignored"))

	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetSpanID(ctx))
}

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), &config.Config{EnableTracing: false}, zerolog.Nop())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestParseOTLPEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected otlpTarget
	}{
		{"host and port", "otel-collector:4318", otlpTarget{hostPort: "otel-collector:4318", insecure: true}},
		{"http url", "http://otel-collector:4318", otlpTarget{hostPort: "otel-collector:4318", insecure: true}},
		{"https url", "https://collector.example.com", otlpTarget{hostPort: "collector.example.com"}},
		{"https url with path", "https://collector:4318/v1/traces", otlpTarget{hostPort: "collector:4318", path: "/v1/traces"}},
		{"trailing slash", "http://collector:4318/", otlpTarget{hostPort: "collector:4318", insecure: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := parseOTLPEndpoint(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, target)
		})
	}
}

func TestParseOTLPEndpoint_Invalid(t *testing.T) {
	for _, raw := range []string{"grpc://collector:4317", "http://", "http://[::1"} {
		_, err := parseOTLPEndpoint(raw)
		assert.Error(t, err, raw)
	}
}
