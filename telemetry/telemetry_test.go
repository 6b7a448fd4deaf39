package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

//nolint:paralleltest
func TestInitialize_Disabled(t *testing.T) {
	require.NoError(t, Initialize(t.Context(), Config{Enabled: false, Endpoint: "http://localhost:4318"}))
	require.NoError(t, Initialize(t.Context(), Config{Enabled: true}))

	mu.Lock()
	defer mu.Unlock()

	assert.Nil(t, tracerProvider)
	assert.Nil(t, loggerProvider)
}

//nolint:paralleltest
func TestInitialize_InstallsProvider(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	err := Initialize(t.Context(), Config{
		Enabled:        true,
		ServiceName:    "formctl-test",
		ServiceVersion: "0.0.1",
		Environment:    "test",
		Endpoint:       "http://127.0.0.1:4318",
		Timeout:        time.Second,
	})
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)

	require.NoError(t, Shutdown(t.Context()))
	require.NoError(t, Shutdown(t.Context()), "second shutdown is a no-op")
}

//nolint:paralleltest
func TestInitialize_LogsOnly(t *testing.T) {
	assert.Nil(t, LogHandler("formctl"))

	err := Initialize(t.Context(), Config{
		Enabled:      true,
		ServiceName:  "formctl-test",
		LogsEndpoint: "http://127.0.0.1:4318",
		Timeout:      time.Second,
	})
	require.NoError(t, err)

	mu.Lock()
	assert.Nil(t, tracerProvider)
	assert.NotNil(t, loggerProvider)
	mu.Unlock()

	assert.NotNil(t, LogHandler("formctl"))

	require.NoError(t, Shutdown(t.Context()))
	assert.Nil(t, LogHandler("formctl"))
}
