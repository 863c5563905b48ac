package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// serviceName is attached to every entry.
const serviceName = "caption-queue"

type ctxKey struct{}

type implLogger struct {
	entry *logrus.Entry
}

// New creates a Logger writing to stdout.
func New(level string) Logger {
	return NewWithWriter(level, "text", os.Stdout)
}

// NewWithFormat creates a Logger writing to stdout with the given formatter ("json" or "text").
func NewWithFormat(level, format string) Logger {
	return NewWithWriter(level, format, os.Stdout)
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(level, format string, w io.Writer) Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(parseLevel(level))
	if strings.EqualFold(format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return FromLogrus(l)
}

// FromLogrus wraps an existing logrus logger.
func FromLogrus(l *logrus.Logger) Logger {
	return &implLogger{entry: l.WithField("service", serviceName)}
}

// WithFields returns a context whose log entries carry fields.
func WithFields(ctx context.Context, fields logrus.Fields) context.Context {
	merged := logrus.Fields{}
	if prev, ok := ctx.Value(ctxKey{}).(logrus.Fields); ok {
		for k, v := range prev {
			merged[k] = v
		}
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, ctxKey{}, merged)
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func (l *implLogger) with(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return l.entry
	}
	if fields, ok := ctx.Value(ctxKey{}).(logrus.Fields); ok {
		return l.entry.WithFields(fields)
	}
	return l.entry
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.with(ctx).Debugf(msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.with(ctx).Infof(msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.with(ctx).Warnf(msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.with(ctx).Errorf(msg, args...)
}
