// Package logger provides a small factory for configured log/slog loggers.
//
// The factory applies production-safe defaults (JSON output, INFO level) and
// exposes functional options for the handful of knobs services actually need:
// level, format, output destination and static attributes.
//
//	log := logger.New(
//	    logger.WithService("billing"),
//	    logger.WithLevel(slog.LevelDebug),
//	)
//	log.Info("subscription created", "user_id", id)
//
// Services in this module accept a *slog.Logger through their own functional
// options and fall back to slog.Default() when none is supplied.
package logger
