// Package logging writes key=value log lines tagged with the request id.
package logging

import (
	"context"
	"fmt"
	"log"
	"strings"
)

type requestIDKey struct{}

// WithRequestID stores the request id in ctx.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request id stored by WithRequestID.
func RequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger prefixes every line with the request id and any fields added by With.
type Logger struct {
	prefix string
}

// New creates a logger with request context
func New(ctx context.Context) *Logger {
	requestID := "unknown"
	if rid := RequestID(ctx); rid != "" {
		requestID = rid
	}
	return &Logger{prefix: "request_id=" + requestID}
}

// With returns a logger that also writes key=value on every line.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{prefix: l.prefix + " " + key + "=" + value}
}

func (l *Logger) write(level, operation, rest string) {
	log.Printf("[%s] %s operation=%s %s", level, l.prefix, operation, strings.TrimSpace(rest))
}

func (l *Logger) LogError(operation string, err error) {
	l.write("error", operation, fmt.Sprintf("error=%q", err.Error()))
}

func (l *Logger) LogErrorf(operation string, format string, args ...any) {
	l.write("error", operation, fmt.Sprintf(format, args...))
}

func (l *Logger) LogInfo(operation string, message string) {
	l.write("info", operation, fmt.Sprintf("message=%q", message))
}

func (l *Logger) LogInfof(operation string, format string, args ...any) {
	l.write("info", operation, fmt.Sprintf(format, args...))
}

func (l *Logger) LogWarn(operation string, message string) {
	l.write("warn", operation, fmt.Sprintf("message=%q", message))
}

func (l *Logger) LogWarnf(operation string, format string, args ...any) {
	l.write("warn", operation, fmt.Sprintf(format, args...))
}

// Notice logs a message meant for the person driving the session, tagged
// with its kind (warn, error, success, focus).
func (l *Logger) Notice(kind, message string) {
	l.write("notice", "settings", fmt.Sprintf("kind=%s message=%q", kind, message))
}
