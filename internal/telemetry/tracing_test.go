package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/lokatani/marketplace-api/internal/config"
	"github.com/lokatani/marketplace-api/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitTracer(t *testing.T) {
	t.Run("Disabled Without Endpoint", func(t *testing.T) {
		shutdown, err := telemetry.InitTracer(context.Background(), config.OtelConfig{ServiceName: "test"})

		require.NoError(t, err)
		require.NotNil(t, shutdown)
		assert.NoError(t, shutdown(context.Background()))
		_, isSDK := otel.GetTracerProvider().(*sdktrace.TracerProvider)
		assert.False(t, isSDK, "global provider must stay untouched")
	})

	t.Run("Installs SDK Provider", func(t *testing.T) {
		prev := otel.GetTracerProvider()
		t.Cleanup(func() { otel.SetTracerProvider(prev) })

		shutdown, err := telemetry.InitTracer(context.Background(), config.OtelConfig{
			ServiceName:      "test",
			ExporterEndpoint: "http://127.0.0.1:4318",
			SamplerRatio:     0.5,
		})

		require.NoError(t, err)
		_, isSDK := otel.GetTracerProvider().(*sdktrace.TracerProvider)
		assert.True(t, isSDK)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		assert.NoError(t, shutdown(ctx))
	})
}
