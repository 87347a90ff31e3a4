package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sabarim/metaldata/internal/config"
	"github.com/stretchr/testify/require"
)

type failingFetcher struct {
	calls int
}

func (f *failingFetcher) Fetch(ctx context.Context, symbol string) (string, error) {
	f.calls++
	return "", errors.New("connection refused")
}

func requireBanners(t *testing.T, out string) {
	t.Helper()
	start := strings.Index(out, "Parsing starting...")
	done := strings.Index(out, "Parsing completed!!!")
	require.Equal(t, 0, start, "start message must come first:\n%s", out)
	require.Greater(t, done, start)
	require.True(t, strings.HasSuffix(out, "Parsing completed!!!\n"), "completion message must come last:\n%s", out)
}

func TestRunAllFetchesFail(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.DataDir = filepath.Join(t.TempDir(), "data")
	source := &failingFetcher{}

	var buf bytes.Buffer
	run(context.Background(), &buf, &cfg, source)

	out := buf.String()
	requireBanners(t, out)
	require.Equal(t, 6, source.calls)
	require.Equal(t, 6, strings.Count(out, "connection refused"))

	_, err := os.Stat(cfg.Storage.DataDir)
	require.True(t, os.IsNotExist(err))
}

func TestRunUpdaterInitFails(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	cfg := config.Default()
	cfg.Storage.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Storage.ParquetEnabled = true
	cfg.Storage.ParquetDir = filepath.Join(blocker, "parquet")
	source := &failingFetcher{}

	var buf bytes.Buffer
	run(context.Background(), &buf, &cfg, source)

	requireBanners(t, buf.String())
	require.Zero(t, source.calls)
}
