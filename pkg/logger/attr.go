package logger

import "log/slog"

// Error returns an attribute for a non-nil error under the key "error".
// A nil error yields an empty Attr so call sites don't need to branch.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// Component tags log records with the emitting component name.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
