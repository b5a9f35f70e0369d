package config

// Log levels accepted by logger.log_level and the CLI --log-level flag
const (
	LogLevelDebug    = "debug"
	LogLevelInfo     = "info"
	LogLevelWarning  = "warning"
	LogLevelError    = "error"
	LogLevelCritical = "critical"
)

// Log types
const (
	LogTypeConsole = "console"
	LogTypeFile    = "file"
)

// File logger defaults, applied when logger.log_type is file and a value is left unset
const (
	DefaultLogFilePath   = "record-vault.log"
	DefaultLogMaxSize    = 10 // megabytes
	DefaultLogMaxBackups = 3
	DefaultLogMaxAge     = 28 // days
)
