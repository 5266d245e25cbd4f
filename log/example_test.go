package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/runtpl/log"
)

func Example_levels() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"))

	logger.Info("info message")
	logger.Warn("warning message", slog.String("key", "value"))
	// Output:
	// level=WARN msg="warning message" key=value
}

func Example_json() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithLevel(log.LevelTrace),
		log.WithTimeLayout("none"))

	logger.Trace("parsed", slog.Int("nodes", 4))
	// Output:
	// {"level":"TRACE","msg":"parsed","nodes":4}
}

func Example_withAttributes() {
	logger := log.Make(os.Stdout, log.WithLevel(log.LevelInfo), log.WithTimeLayout("none"))
	logger = logger.With(slog.String("template", "prompt"))

	logger.Info("rendered", slog.Int("bytes", 120))
	// Output:
	// level=INFO msg=rendered template=prompt bytes=120
}
