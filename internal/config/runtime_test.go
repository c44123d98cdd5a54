package config

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpcalc/internal/shared/testutil"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestRuntimeApply(t *testing.T) {
	cfg := Default()
	rt := NewRuntime(cfg)
	assert.Equal(t, slog.LevelInfo, rt.LevelVar().Level())

	var notified atomic.Int32
	rt.OnChange(func(*Config) { notified.Add(1) })

	next := Default()
	next.Logging.Level = "error"
	next.Engine.DefaultWindow = 6
	next.Security.RateLimit.RPS = 5
	rt.Apply(next)

	assert.Equal(t, slog.LevelError, rt.LevelVar().Level())
	assert.Equal(t, 6, rt.Engine().DefaultWindow)
	assert.Equal(t, 5.0, rt.RateLimit().RPS)
	assert.Equal(t, int32(1), notified.Load())
}

func TestRuntimeApplyNotifiesListenersInOrder(t *testing.T) {
	rt := NewRuntime(Default())

	var order []int
	rt.OnChange(func(*Config) { order = append(order, 1) })
	rt.OnChange(func(*Config) {
		order = append(order, 2)
		// registering from a listener must not deadlock or run in this round
		rt.OnChange(func(*Config) { order = append(order, 3) })
	})

	rt.Apply(Default())
	assert.Equal(t, []int{1, 2}, order)

	rt.Apply(Default())
	assert.Equal(t, []int{1, 2, 1, 2, 3}, order)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "engine:\n  default_window: 3\n")
	logger, logs := testutil.NewTestLogger(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, logger, func(c *Config) { reloaded <- c })
	}()

	require.Eventually(t, func() bool { return logs.ContainsMessage("watching config") },
		2*time.Second, 10*time.Millisecond)

	// an invalid file is ignored
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  default_window: 0\n"), 0644))
	require.Eventually(t, func() bool { return logs.ContainsMessage("reload failed") },
		2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("engine:\n  default_window: 5\n"), 0644))
	// a truncating write can surface an intermediate empty file first
	deadline := time.After(2 * time.Second)
	for seen := false; !seen; {
		select {
		case c := <-reloaded:
			seen = c.Engine.DefaultWindow == 5
		case <-deadline:
			t.Fatal("config was not reloaded")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchMissingFile(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	err := Watch(context.Background(), "/nonexistent/config.yaml", logger, func(*Config) {})
	assert.Error(t, err)
}
