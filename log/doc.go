// Package log provides a small structured logging interface built on
// [log/slog].
//
// Loggers are immutable values configured with functional options at creation
// time. [Logger.Wrap] derives a logger with some options overridden, and
// [Logger.With] derives one that adds attributes to every record.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Info("evaluated", slog.String("expr", "now + 3日"))
//
// The zero value [Logger] discards everything, so packages may hold one
// without requiring their callers to configure logging.
//
// A process-wide default logger backs the package-level functions ([Info],
// [DebugContext], ...). It is reconfigured with [Config], which is safe to call
// concurrently with logging.
//
// # Levels
//
// In addition to the four [log/slog] levels there is [LevelTrace], which sits
// below [LevelDebug] and is used for step-by-step diagnostics of the
// expression evaluator.
//
// # Output
//
// Records are written as JSON ([FormatJSON], the default) or logfmt-style text
// ([FormatText]). With [WithPretty], text output is colorized and unquoted for
// reading on a terminal.
package log
