package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != DefaultLevel {
		t.Errorf("expected default level %v, got %v", DefaultLevel, logger.Level())
	}
	if logger.caller {
		t.Error("expected caller disabled by default")
	}
	if logger.Format() != DefaultFormat {
		t.Errorf("expected default format %v, got %v", DefaultFormat, logger.Format())
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelDebug))

	logger.Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged after setting level to Debug")
	}

	buf.Reset()
	logger = Make(&buf, WithLevel(LevelError))
	logger.Info("info message")
	if buf.Len() > 0 {
		t.Error("info message logged when level is Error")
	}

	logger.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at Error level")
	}
}

func TestLogger_Trace_PrintsLevelName(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelTrace), WithTimeLayout("none"))

	logger.Trace("cache lookup", slog.String("key", "abc"))

	want := "level=TRACE msg=\"cache lookup\" key=abc\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestLogger_WithTimeLayout(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		check  func(string) bool
	}{
		{"rfc3339 named", "RFC3339", func(s string) bool { return strings.Contains(s, "time=") }},
		{"kitchen alias", "kitchen", func(s string) bool {
			return strings.Contains(s, "AM ") || strings.Contains(s, "PM ")
		}},
		{"none", "none", func(s string) bool { return !strings.Contains(s, "time=") }},
		{"empty", "", func(s string) bool { return !strings.Contains(s, "time=") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithLevel(LevelInfo), WithTimeLayout(tt.layout))
			logger.Info("test")

			if !tt.check(buf.String()) {
				t.Errorf("unexpected output for layout %q: %s", tt.layout, buf.String())
			}
		})
	}
}

func TestLogger_WithCaller_IncludesSource(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithCaller(true))
	logger.Warn("test message")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected source to name the calling file, got: %s", buf.String())
	}

	buf.Reset()
	logger = Make(&buf, WithCaller(false))
	logger.Warn("test message")

	if strings.Contains(buf.String(), "source=") {
		t.Error("source included when disabled")
	}
}

func TestLogger_WithFormat_SetsOutputFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatJSON))
		logger.Warn("test message", slog.String("key", "value"))

		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v", err)
		}
		if result["msg"] != "test message" {
			t.Errorf("expected msg=test message, got %v", result["msg"])
		}
		if result["level"] != "WARN" {
			t.Errorf("expected level=WARN, got %v", result["level"])
		}
		if result["key"] != "value" {
			t.Errorf("expected key=value, got %v", result["key"])
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatText))
		logger.Warn("test message", slog.String("key", "value"))

		output := buf.String()
		if !strings.Contains(output, "key=value") {
			t.Errorf("expected key=value in text output, got: %s", output)
		}
		if strings.HasPrefix(output, "{") {
			t.Errorf("text output looks like JSON: %s", output)
		}
	})
}

func TestLogger_WithPretty(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithPretty(true), WithTimeLayout("none"))
		logger.Warn("pretty", slog.Bool("ok", true))

		output := buf.String()
		if !strings.Contains(output, colorGray+"msg"+colorReset+"=") {
			t.Errorf("expected colorized key, got %q", output)
		}
		if !strings.Contains(output, colorGreen+"true"+colorReset) {
			t.Errorf("expected colorized bool, got %q", output)
		}
		if !strings.Contains(output, colorYellow+"WARN"+colorReset) {
			t.Errorf("expected colorized level, got %q", output)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf,
			WithPretty(true), WithFormat(FormatJSON), WithTimeLayout("none"))
		logger.Error("pretty", slog.Int("n", 3))

		output := buf.String()
		if !strings.HasPrefix(output, "{\n  ") || !strings.HasSuffix(output, "\n}\n") {
			t.Errorf("expected indented object, got %q", output)
		}
		if !strings.Contains(output, colorYellow+"3"+colorReset) {
			t.Errorf("expected colorized number, got %q", output)
		}
	})

	t.Run("groups", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithPretty(true), WithTimeLayout("none")).
			WithGroup("req").
			With(slog.String("id", "7"))
		logger.Warn("grouped", slog.Group("user", slog.String("name", "ada")))

		output := buf.String()
		for _, key := range []string{"req.id", "req.user.name"} {
			if !strings.Contains(output, key) {
				t.Errorf("expected key %q in %q", key, output)
			}
		}
	})
}

func TestLogger_WithTerminal_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(true), WithTerminal(&buf))

	if logger.pretty {
		t.Error("expected pretty disabled for a non-terminal writer")
	}
}

func TestLogger_Wrap_KeepsOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf).Wrap(WithLevel(LevelInfo))

	logger.Info("wrapped")
	if !strings.Contains(buf.String(), "wrapped") {
		t.Errorf("expected wrapped logger to keep its output, got %q", buf.String())
	}
	if logger.Level() != LevelInfo {
		t.Errorf("expected level Info, got %v", logger.Level())
	}
}

func TestLogger_Zero(t *testing.T) {
	var logger Logger

	// Must not panic.
	logger.Error("dropped")
	logger.With(slog.String("k", "v")).WithGroup("g").Warn("dropped")

	if logger.Enabled(t.Context(), LevelError) {
		t.Error("zero logger reports enabled")
	}
	if logger.Level() != DefaultLevel {
		t.Errorf("expected default level, got %v", logger.Level())
	}
}

func TestLogger_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(true), WithTimeLayout("none"))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			logger.Warn("concurrent", slog.Int("i", i))
		})
	}
	wg.Wait()

	lines := strings.Count(buf.String(), "\n")
	if lines != 50 {
		t.Errorf("expected 50 lines, got %d", lines)
	}
}
