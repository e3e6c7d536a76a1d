package llm

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	loggerMu sync.RWMutex
	logger   *log.Logger
)

// Logger returns the package logger used by transports, retries, the tool
// executor and the runner. It writes to stderr at warn level unless
// LLM_LOG_LEVEL (debug, info, warn, error) says otherwise.
func Logger() *log.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}

	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		logger = newDefaultLogger()
	}
	return logger
}

// SetLogger replaces the package logger. A nil logger restores the default.
func SetLogger(l *log.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

func newDefaultLogger() *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "go-chatlog",
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           log.WarnLevel,
	})
	if lvl := os.Getenv("LLM_LOG_LEVEL"); lvl != "" {
		if parsed, err := log.ParseLevel(lvl); err == nil {
			l.SetLevel(parsed)
		}
	}
	return l
}
