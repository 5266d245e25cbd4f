// Package log provides leveled, structured logging built on [log/slog].
//
// A [Logger] wraps a [slog.Logger] together with the configuration it was
// built from, so a derived logger can be reconfigured with [Logger.Wrap]
// without losing the output destination:
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Debug("parsed template", slog.Int("nodes", 12))
//
// The zero [Logger] discards everything. Packages that accept a logger as
// an option can therefore hold one unconditionally.
//
// # Levels
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn] and [LevelError]. Trace sits below slog's debug level and is
// printed as "TRACE". Messages below the configured level are discarded
// before any attribute is formatted.
//
// # Formats
//
// [FormatText] writes logfmt-style key=value lines and [FormatJSON] writes
// one JSON object per line. [WithPretty] colorizes either format, and
// [WithTerminal] enables color only when the output is a terminal.
//
// # Time Formatting
//
// [WithTimeLayout] accepts any named layout of the [time] package (such as
// "RFC3339" or "Kitchen"), the short aliases "ms", "us" and "ns", or a custom
// layout string. The layout "none" omits timestamps entirely.
//
// # Context
//
// Every level has a context-aware method and a context-unaware variant. The
// latter use [DefaultContextProvider], which returns [context.TODO] unless
// replaced.
//
// # Default Logger
//
// The package-level functions write through a default logger bound to
// standard error. [Config] reconfigures it in place and [Default] returns it.
package log
