package logger

// Logger is the logging interface every record-vault component receives by injection.
// Arguments are joined like fmt.Sprint, so callers write
// log.Info("Inserted company ", id) without format verbs.
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	// Fatal logs at error level and exits the process
	Fatal(args ...interface{})
	// Panic logs at error level and panics with the message
	Panic(args ...interface{})
}
