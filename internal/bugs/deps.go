package bugs

import "time"

// Clock supplies the createdAt and updatedAt stamps.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock in UTC at millisecond precision, the
// resolution clients see in the JSON timestamps.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Logger is the slice of slog the service needs. Args are alternating
// key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func NewNopLogger() *NopLogger { return &NopLogger{} }

func (*NopLogger) Debug(string, ...any) {}
func (*NopLogger) Info(string, ...any)  {}
func (*NopLogger) Warn(string, ...any)  {}
func (*NopLogger) Error(string, ...any) {}
