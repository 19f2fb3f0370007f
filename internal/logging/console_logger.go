package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// ConsoleLogger writes log messages to stderr through logrus.
// Verbose maps to the debug level and is only emitted in verbose mode.
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	log *logrus.Logger
}

// NewConsoleLogger creates a ConsoleLogger writing to stderr.
// If verbose is false, Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewConsoleLoggerWithWriter(os.Stderr, verbose)
}

// NewConsoleLoggerWithWriter creates a ConsoleLogger writing to w.
func NewConsoleLoggerWithWriter(w io.Writer, verbose bool) *ConsoleLogger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&prefixFormatter{})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return &ConsoleLogger{log: log}
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if len(args) == 0 {
		l.log.Debug(format)
		return
	}
	l.log.Debugf(format, args...)
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	if len(args) == 0 {
		l.log.Info(format)
		return
	}
	l.log.Infof(format, args...)
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	if len(args) == 0 {
		l.log.Error(format)
		return
	}
	l.log.Errorf(format, args...)
}

// prefixFormatter renders one line per entry with a level tag:
// "[VERBOSE] msg", "msg" or "[ERROR] msg".
type prefixFormatter struct{}

func (f *prefixFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var prefix string
	switch entry.Level {
	case logrus.DebugLevel, logrus.TraceLevel:
		prefix = "[VERBOSE] "
	case logrus.WarnLevel:
		prefix = "[WARN] "
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		prefix = "[ERROR] "
	}
	return []byte(prefix + entry.Message + "\n"), nil
}
