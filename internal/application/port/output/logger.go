package output

// LoggerPort takes alternating key/value pairs after the message, the
// sugared style.
type LoggerPort interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	With(args ...any) LoggerPort

	Sync() error
}
