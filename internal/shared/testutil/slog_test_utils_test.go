package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	logger, handler := NewTestLogger(t)

	derived := logger.With(slog.String("component", "test"))
	derived.Info("first message", slog.Int("count", 3))
	logger.Warn("second message")

	records := handler.GetRecords()
	require.Len(t, records, 2)
	assert.Equal(t, "test", records[0].Attrs["component"])
	assert.Equal(t, int64(3), records[0].Attrs["count"])

	assert.True(t, handler.ContainsMessage("second"))
	assert.True(t, handler.ContainsAttr("component", "test"))
	assert.Len(t, handler.GetRecordsByLevel(slog.LevelWarn), 1)
	assert.Equal(t, 2, handler.Count())
}
