// Package logctx builds the decred/slog backend and hands out one tagged
// logger per subsystem, the same shape the teacher's LogBackend wraps
// around bisonbotkit/logging but without the Bison Relay dependency: a
// single io.Writer-backed slog.Backend, a level parsed once, and
// Logger(tag) for each caller.
package logctx

import (
	"io"
	"os"

	"github.com/decred/slog"
)

// Backend hands out tagged slog.Logger instances sharing one output and
// level. Subsystems are expected to request a stable tag once at
// construction time (ENGINE, SESSION, WS, HTTP, AI) and keep it.
type Backend struct {
	backend *slog.Backend
	level   slog.Level
}

// New builds a Backend writing to w at the given level name ("trace",
// "debug", "info", "warn", "error", "critical"). An empty or unknown
// level name defaults to "info".
func New(w io.Writer, levelName string) *Backend {
	if w == nil {
		w = os.Stderr
	}
	level, ok := slog.LevelFromString(levelName)
	if !ok {
		level = slog.LevelInfo
	}
	return &Backend{backend: slog.NewBackend(w), level: level}
}

// Logger returns a logger tagged with subsystem, e.g. Logger("ENGINE").
func (b *Backend) Logger(subsystem string) slog.Logger {
	l := b.backend.Logger(subsystem)
	l.SetLevel(b.level)
	return l
}
