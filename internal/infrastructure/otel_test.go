package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitializeOTel(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "stdout"

	providers, err := InitializeOTel(cfg, slog.Default())
	require.NoError(t, err)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestInitializeOTel_Disabled(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "none"
	cfg.MetricExporter = "none"

	providers, err := InitializeOTel(cfg, slog.Default())
	require.NoError(t, err)
	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "zipkin"

	_, err := InitializeOTel(cfg, slog.Default())
	assert.Error(t, err)
}

func TestTraceIDFromContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.Len(t, traceID, 32)
	assert.Equal(t, traceID, GetTraceID(ctx), "span trace ID used as fallback")
	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestChartMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := CreateChartMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordLoad(ctx, "upload", 120, 10*time.Millisecond, nil)
	m.RecordLoad(ctx, "sample", 0, time.Millisecond, errors.New("fetch failed"))
	m.RecordDraw(ctx, "tandem", "success", time.Millisecond)
	m.RecordDraw(ctx, "tandem", "no_matching_data", time.Millisecond)
	m.RecordExport(ctx, "csv", nil)

	metrics := collect(t, reader)

	loads, ok := metrics["dataset_loads_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range loads.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(2), total)

	draws, ok := metrics["chart_draws_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, draws.DataPoints, 2)
	for _, dp := range draws.DataPoints {
		mode, _ := dp.Attributes.Value(attribute.Key("mode"))
		assert.Equal(t, "tandem", mode.AsString())
	}

	errs, ok := metrics["errors_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, errs.DataPoints, 1)
	assert.Equal(t, int64(1), errs.DataPoints[0].Value)
}

func TestChartMetrics_NilSafe(t *testing.T) {
	var m *ChartMetrics
	assert.NotPanics(t, func() {
		m.RecordLoad(context.Background(), "file", 1, time.Second, nil)
		m.RecordDraw(context.Background(), "yearly", "success", time.Second)
		m.RecordExport(context.Background(), "xlsx", nil)
	})
}
