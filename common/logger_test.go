package common

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLoggerRoutesRecords(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	Logger().Warn("parameter not found", "parameter", "M")

	assert.Contains(t, buf.String(), "parameter not found")
	assert.Contains(t, buf.String(), "parameter=M")
}

func TestSetLoggerNilSilences(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(nil)
	l := Logger()
	require.NotNil(t, l)
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		assert.False(t, l.Enabled(context.Background(), level))
	}
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 1280, Coalesce(0, 1280, 640))
	assert.Equal(t, "", Coalesce("", ""))
	assert.Equal(t, "a", Coalesce("a", "b"))
}
