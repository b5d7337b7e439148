package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	// globalLogger holds the process logger once Init has run.
	globalLogger *Logger
	once         sync.Once
)

// Init builds the process logger. The first call wins; later calls return
// the existing instance unchanged.
func Init(level, format string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level, format)
	})
	return globalLogger
}

// Get returns the process logger, or a console logger at info level when
// Init has not been called (e.g. in tests).
func Get() *Logger {
	return Init(InfoLevel, FormatConsole)
}
