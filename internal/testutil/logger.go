// Package testutil provides shared helpers for tests.
package testutil

import (
	"log/slog"
	"strings"
	"testing"
)

// writerFunc adapts a function to io.Writer.
type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

// NewTestLogger returns a debug-level slog logger routed through t.Log, so
// log lines only surface on failure or under -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	sink := writerFunc(func(p []byte) (int, error) {
		t.Helper()
		for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
			t.Log(line)
		}
		return len(p), nil
	})
	return slog.New(slog.NewTextHandler(sink, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
