package observability

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOtelHeaders(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-api-key=abc, bad, empty=,tenant=t1")
	require.Equal(t, map[string]string{"x-api-key": "abc", "tenant": "t1"}, otelHeaders())

	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")
	require.Nil(t, otelHeaders())
}

func TestOtelSampleRatioClamps(t *testing.T) {
	t.Setenv("OTEL_SAMPLER_RATIO", "4")
	require.Equal(t, 1.0, otelSampleRatio())
	t.Setenv("OTEL_SAMPLER_RATIO", "-1")
	require.Equal(t, 0.0, otelSampleRatio())
	t.Setenv("OTEL_SAMPLER_RATIO", "")
	require.Equal(t, 0.1, otelSampleRatio())
}
