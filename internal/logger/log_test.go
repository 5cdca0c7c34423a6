// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("logger writing to stderr is created", func(t *testing.T) {
		if l := New(slog.LevelWarn); l == nil || l.Logger == nil {
			t.Fatal("expected logger to be non-nil")
		}
	})
}

func TestNewLogger(t *testing.T) {
	levels := map[string]func(*Logger, string, ...any){
		"DEBUG": func(l *Logger, msg string, args ...any) { l.Debug(msg, args...) },
		"INFO":  func(l *Logger, msg string, args ...any) { l.Info(msg, args...) },
		"WARN":  func(l *Logger, msg string, args ...any) { l.Warn(msg, args...) },
		"ERROR": func(l *Logger, msg string, args ...any) { l.Error(msg, args...) },
	}
	tests := []struct {
		level slog.Level
		want  []string
	}{
		{slog.LevelDebug, []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{slog.LevelInfo, []string{"INFO", "WARN", "ERROR"}},
		{slog.LevelWarn, []string{"WARN", "ERROR"}},
		{slog.LevelError, []string{"ERROR"}},
	}
	for _, tc := range tests {
		t.Run("records below "+tc.level.String()+" are dropped", func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			l := NewLogger(tc.level, buf)
			for name, logFn := range levels {
				logFn(l, "sample point rated", slog.String("zone", strings.ToLower(name)))
			}
			lines := strings.Count(buf.String(), "\n")
			if lines != len(tc.want) {
				t.Errorf("expected %d records to be logged, got %d: %q", len(tc.want), lines, buf.String())
			}
			for _, name := range tc.want {
				if !strings.Contains(buf.String(), "level="+name) {
					t.Errorf("expected a %s record, got %q", name, buf.String())
				}
			}
		})
	}
}

func TestErr(t *testing.T) {
	t.Run("errors are logged under the error key", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		l := NewLogger(slog.LevelInfo, buf)
		l.Error("failed to fetch forecast", Err(errors.New("upstream unavailable")))

		want := `error="upstream unavailable"`
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected log record to contain %q, got %q", want, buf.String())
		}
	})
}
