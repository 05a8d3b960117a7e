package db

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/stretchr/testify/assert"
)

func TestSlogAdapterMapsLevels(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	adapter := slogAdapter(log)

	adapter.Log(context.Background(), tracelog.LogLevelInfo, "Query", map[string]any{"sql": "select 1"})
	assert.Empty(t, buf.String())

	adapter.Log(context.Background(), tracelog.LogLevelError, "Query", map[string]any{"sql": "select 1"})
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), `sql="select 1"`)
}

func TestNewPoolRejectsBadDSN(t *testing.T) {
	_, err := NewPool(context.Background(), "postgres://%zz", Options{})
	assert.Error(t, err)
}
