// Package log holds logger decorators used when wiring the controller.
package log

import "github.com/bft-labs/centronic/internal/ports"

// FieldLogger adds a fixed set of fields to every message of the wrapped
// logger.
type FieldLogger struct {
	next   ports.Logger
	fields []ports.Field
}

// WithFields returns a logger that prepends fields to every call.
func WithFields(next ports.Logger, fields ...ports.Field) *FieldLogger {
	return &FieldLogger{next: next, fields: fields}
}

func (l *FieldLogger) Debug(msg string, fields ...ports.Field) {
	l.next.Debug(msg, l.merge(fields)...)
}

func (l *FieldLogger) Info(msg string, fields ...ports.Field) {
	l.next.Info(msg, l.merge(fields)...)
}

func (l *FieldLogger) Warn(msg string, fields ...ports.Field) {
	l.next.Warn(msg, l.merge(fields)...)
}

func (l *FieldLogger) Error(msg string, fields ...ports.Field) {
	l.next.Error(msg, l.merge(fields)...)
}

func (l *FieldLogger) merge(fields []ports.Field) []ports.Field {
	out := make([]ports.Field, 0, len(l.fields)+len(fields))
	out = append(out, l.fields...)
	return append(out, fields...)
}
