package ports

// Logger abstracts logging so services do not depend on a concrete sink.
type Logger interface {
	// Debug is emitted only in verbose mode
	Debug(msg string, args ...interface{})

	Info(msg string, args ...interface{})

	Warn(msg string, args ...interface{})

	Error(msg string, args ...interface{})

	// Fatal logs and terminates the process
	Fatal(msg string, args ...interface{})

	// Printf is kept for callers expecting log.Printf
	Printf(format string, args ...interface{})
}
