package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ejournal/backend/internal/infrastructure/telemetry"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	cfg := telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "test-service",
	}

	tp, err := telemetry.NewTracerProvider(ctx, cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.False(t, tp.IsEnabled())

	// Tracer still hands out a usable no-op tracer
	tracer := tp.Tracer("test")
	require.NotNil(t, tracer)
	_, span := tracer.Start(ctx, "test-span")
	span.End()

	assert.NoError(t, tp.Shutdown(ctx))
}

func TestDefaultConfig(t *testing.T) {
	cfg := telemetry.DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "localhost:4317", cfg.CollectorEndpoint)
	assert.Equal(t, 1.0, cfg.SamplingRatio)
	assert.Equal(t, "ejournal-backend", cfg.ServiceName)
}
