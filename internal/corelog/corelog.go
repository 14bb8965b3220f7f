// Package corelog is the thin structured-logging wrapper shared by
// bufferpool and triestore. ShubhamNegi4-DaemonDB logs its buffer pool's
// hits, misses, evictions, and flushes with bare fmt.Printf;
// other_examples/tuannm99-novasql__pool.go shows the idiomatic upgrade for
// the same component, a component-scoped log/slog.Logger. No example repo
// in the pack pulls in a third-party logging library, so slog (stdlib) is
// the correct ambient choice here.
package corelog

import (
	"log/slog"
	"os"
)

// Default is used by any component constructed without an explicit logger.
func Default(component string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", component)
}

// Scoped tags an existing logger with a component attribute, or falls back
// to Default if l is nil.
func Scoped(l *slog.Logger, component string) *slog.Logger {
	if l == nil {
		return Default(component)
	}
	return l.With("component", component)
}
