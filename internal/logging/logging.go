// Package logging provides the shell's optional structured debug logger.
// Outside --debug mode every call is a no-op, matching the teacher's own
// lazy zap.NewDevelopment()-with-Nop-fallback pattern (internal/lsp/server.go
// in the teacher repository) rather than a global logger singleton.
package logging

import "go.uber.org/zap"

// Logger wraps *zap.Logger so the rest of the shell can pass around a
// possibly-nil-safe value without every call site checking for nil.
type Logger struct {
	z *zap.Logger
}

// New returns a development-mode zap logger writing to stderr when debug is
// true, or a no-op logger otherwise. A failure to construct the zap logger
// degrades to the no-op logger rather than aborting the shell.
func New(debug bool) *Logger {
	if !debug {
		return &Logger{z: zap.NewNop()}
	}
	z, err := zap.NewDevelopment()
	if err != nil {
		return &Logger{z: zap.NewNop()}
	}
	return &Logger{z: z}
}

// Debug logs at debug level with structured fields.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Debug(msg, fields...)
}

// Warn logs at warn level with structured fields.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Warn(msg, fields...)
}

// Error logs at error level with structured fields.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Error(msg, fields...)
}

// Sync flushes any buffered log entries. Errors from Sync on stderr (common
// when stderr is a terminal) are intentionally ignored.
func (l *Logger) Sync() {
	if l == nil || l.z == nil {
		return
	}
	_ = l.z.Sync()
}
