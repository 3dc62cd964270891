package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gatherhub/server/internal/config"
)

func TestInitDisabledReturnsNoopShutdown(t *testing.T) {
	shutdown, err := Init(context.Background(), config.TracingConfig{Enabled: false}, "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitRejectsBadSampleRate(t *testing.T) {
	_, err := Init(context.Background(), config.TracingConfig{
		Enabled:     true,
		Exporter:    "none",
		ServiceName: "test",
		SampleRate:  1.5,
	}, "test")
	require.Error(t, err)
}

func TestInitRejectsUnknownExporter(t *testing.T) {
	_, err := Init(context.Background(), config.TracingConfig{
		Enabled:     true,
		Exporter:    "jaeger",
		ServiceName: "test",
		SampleRate:  1,
	}, "test")
	require.Error(t, err)
}

func TestInitWithDiscardExporter(t *testing.T) {
	shutdown, err := Init(context.Background(), config.TracingConfig{
		Enabled:     true,
		Exporter:    "none",
		ServiceName: "test",
		SampleRate:  0.5,
	}, "test")
	require.NoError(t, err)

	_, span := Tracer("test").Start(context.Background(), "op")
	span.End()

	require.NoError(t, shutdown(context.Background()))
}
