package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/tekkenmd/internal/logging"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"DEBUG", log.DebugLevel},
		{"Info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"verbose", log.InfoLevel},
		{"", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			t.Parallel()

			logger := logging.New(tt.level)
			if logger == nil {
				t.Fatal("New returned nil")
			}
			if got := logger.GetLevel(); got != tt.want {
				t.Errorf("New(%q) level = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestNewInteractive(t *testing.T) {
	t.Parallel()

	logger := logging.NewInteractive()
	if logger.GetLevel() != log.InfoLevel {
		t.Errorf("interactive level = %v, want info", logger.GetLevel())
	}
	if logger.GetPrefix() != "tekkenmd" {
		t.Errorf("interactive prefix = %q", logger.GetPrefix())
	}
}

func TestDefaultAndSetLevel(t *testing.T) {
	// Mutates the package default logger.
	original := logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	replacement := logging.New("info")
	logging.SetDefault(replacement)
	if logging.Default() != replacement {
		t.Fatal("SetDefault did not replace the default logger")
	}

	logging.SetLevel("debug")
	if replacement.GetLevel() != log.DebugLevel {
		t.Errorf("SetLevel(debug) left level %v", replacement.GetLevel())
	}

	logging.SetLevel("error")
	if replacement.GetLevel() != log.ErrorLevel {
		t.Errorf("SetLevel(error) left level %v", replacement.GetLevel())
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	carried := logging.New("debug")
	fallback := logging.New("warn")

	ctx := logging.WithLogger(context.Background(), carried)

	if got := logging.FromContext(ctx); got != carried {
		t.Error("FromContext did not return the carried logger")
	}
	if got := logging.FromContextOr(ctx, fallback); got != carried {
		t.Error("FromContextOr preferred the fallback over the carried logger")
	}
	if got := logging.FromContextOr(context.Background(), fallback); got != fallback {
		t.Error("FromContextOr did not return the fallback")
	}
	if logging.FromContext(context.Background()) == nil {
		t.Error("FromContext without a logger returned nil")
	}
	//nolint:staticcheck // A nil context must not panic.
	if logging.FromContext(nil) == nil {
		t.Error("FromContext(nil) returned nil")
	}
}

func TestWithFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	ctx := logging.WithLogger(context.Background(), base)
	ctx, fileLogger := logging.WithFields(ctx, logging.FieldPath, "characters/jin.md")
	_, blockLogger := logging.WithFields(ctx, logging.FieldLine, 12)

	if logging.FromContext(ctx) != fileLogger {
		t.Error("WithFields did not attach the derived logger")
	}

	blockLogger.Debug("wrote image", logging.FieldImage, "tk-0123.png")

	out := buf.String()
	for _, want := range []string{"wrote image", "path=characters/jin.md", "line=12", "image=tk-0123.png"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q does not contain %q", out, want)
		}
	}
}
