package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jouaraujo/curry-company/internal/logging"
	"github.com/jouaraujo/curry-company/internal/models"
)

func TestRun_NothingToWatch(t *testing.T) {
	w := New(models.WatchConfig{}, "orders.csv", func(context.Context) error { return nil }, logging.Nop())
	assert.Error(t, w.Run(context.Background()))
}

func TestRun_InvalidSchedule(t *testing.T) {
	w := New(models.WatchConfig{Schedule: "every now and then"}, "orders.csv", func(context.Context) error { return nil }, logging.Nop())
	assert.ErrorContains(t, w.Run(context.Background()), "invalid schedule")
}

func TestRun_FileChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte("ID\n"), 0o644))

	var runs atomic.Int32
	w := New(models.WatchConfig{OnChange: true}, path, func(context.Context) error {
		runs.Add(1)
		return nil
	}, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	n := 0
	require.Eventually(t, func() bool {
		n++
		future := time.Now().Add(time.Duration(n) * time.Second)
		_ = os.WriteFile(path, []byte("ID\nx\n"), 0o644)
		_ = os.Chtimes(path, future, future)
		return runs.Load() > 0
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestRun_Schedule(t *testing.T) {
	var runs atomic.Int32
	w := New(models.WatchConfig{Schedule: "@every 1s"}, "orders.csv", func(context.Context) error {
		runs.Add(1)
		return assert.AnError
	}, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
