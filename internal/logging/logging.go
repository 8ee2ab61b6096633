// Package logging provides the runtime's diagnostic output; the core
// currently logs the begin and end of each GC pass. It is gated by an
// explicit enable flag and, when enabled, writes to a supplied
// io.Writer (os.Stderr in the normal case) — the same
// env-gated-stderr-tracing idiom the teacher uses for its VM (the
// RTG_VM_MEM / RTG_VM_ALLOC conditionals around fmt.Fprintf(os.Stderr,
// ...) in backend_vm.go). No repo in the retrieval pack imports a
// structured logging library, so this stays on the standard log
// package rather than introducing one.
package logging

import (
	"io"
	"log"
)

// Logger wraps a standard *log.Logger behind an enabled flag so call
// sites can unconditionally call Logf without branching on whether
// diagnostics are turned on.
type Logger struct {
	enabled bool
	inner   *log.Logger
}

// New builds a Logger writing to w when enabled is true; when false,
// Logf is a no-op.
func New(w io.Writer, enabled bool) *Logger {
	return &Logger{enabled: enabled, inner: log.New(w, "mu: ", log.Ltime)}
}

// Logf writes a formatted diagnostic line if the logger is enabled.
func (l *Logger) Logf(format string, args ...any) {
	if l == nil || !l.enabled {
		return
	}
	l.inner.Printf(format, args...)
}

// Enabled reports whether diagnostics are turned on.
func (l *Logger) Enabled() bool { return l != nil && l.enabled }
