package logger

import "log/slog"

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Conditional returns l when enabled is true and a discarding logger
// otherwise. A nil l falls back to slog.Default().
func Conditional(l *slog.Logger, enabled bool) *slog.Logger {
	if !enabled {
		return Discard()
	}
	if l == nil {
		return slog.Default()
	}
	return l
}
