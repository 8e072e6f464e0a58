package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config captures logging configuration options.
type Config struct {
	Level    string
	Dir      string
	Filename string
}

// Logger wraps slog with printf-style helpers and metadata redaction.
type Logger struct {
	slogger *slog.Logger
	file    *os.File
}

const redactedValue = "[REDACTED]"

// Field names whose values never reach a log line.
var sensitiveFields = []string{
	"password",
	"token",
	"cookie",
	"authorization",
	"secret",
	"credential",
}

// New creates a Logger writing to stdout and, when a directory is
// configured, to a log file as well.
func New(cfg Config) (*Logger, error) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	var file *os.File
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		name := cfg.Filename
		if name == "" {
			name = "server.log"
		}
		f, err := os.OpenFile(
			filepath.Join(cfg.Dir, name),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND,
			0o644,
		)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		out = io.MultiWriter(os.Stdout, f)
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	return &Logger{
		slogger: slog.New(handler),
		file:    file,
	}, nil
}

// Slog exposes the structured logger for direct integrations.
func (l *Logger) Slog() *slog.Logger {
	return l.slogger
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) Debug(format string, args ...any) {
	l.slogger.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...any) {
	l.slogger.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.slogger.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.slogger.Error(fmt.Sprintf(format, args...))
}

// InfoWith logs a message with redacted metadata attributes.
func (l *Logger) InfoWith(msg string, fields map[string]any) {
	l.slogger.Info(msg, attrs(fields)...)
}

// WarnWith logs a warning with redacted metadata attributes.
func (l *Logger) WarnWith(msg string, fields map[string]any) {
	l.slogger.Warn(msg, attrs(fields)...)
}

// ErrorWith logs an error with redacted metadata attributes.
func (l *Logger) ErrorWith(msg string, fields map[string]any) {
	l.slogger.Error(msg, attrs(fields)...)
}

func attrs(fields map[string]any) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range Redact(fields) {
		out = append(out, k, v)
	}
	return out
}

// Redact replaces the values of sensitive fields before they are logged.
// Matching is a case-insensitive substring test so "accessToken" and
// "Set-Cookie" are caught too.
func Redact(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		lower := strings.ToLower(k)
		redacted := false
		for _, s := range sensitiveFields {
			if strings.Contains(lower, s) {
				out[k] = redactedValue
				redacted = true
				break
			}
		}
		if !redacted {
			out[k] = v
		}
	}
	return out
}
