package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureHandler_KeepsWithAttrs(t *testing.T) {
	logger, h := NewTestLogger(t)

	logger.With(slog.String("component", "loader")).Warn("fetch failed", "name", "yearly.csv")
	logger.Info("plain")

	records := h.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "loader", records[0].Attrs["component"])
	assert.Equal(t, "yearly.csv", records[0].Attrs["name"])
	assert.NotContains(t, records[1].Attrs, "component")

	r := AssertLogged(t, h, slog.LevelWarn, "fetch")
	assert.Equal(t, "fetch failed", r.Message)

	_, ok := h.Find("missing")
	assert.False(t, ok)
}
