// Package logger provides the pipeline's leveled printf logging. By default
// messages go to stderr; Open switches to a log file whose length is capped
// so repeated runs never grow it without bound.
package logger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// MaxLogLines caps the log file length; older lines are dropped on rotation.
const MaxLogLines = 5000

// LogLevel represents the logging level.
type LogLevel int

const (
	LogLevelTrace LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelTrace:
		return "TRACE"
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LogLevelTrace
	case "DEBUG":
		return LogLevelDebug
	case "INFO":
		return LogLevelInfo
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger is a leveled printf logger. When backed by a file it tracks the
// line count and rotates in place once MaxLogLines is exceeded.
type Logger struct {
	mu        sync.Mutex
	out       io.Writer
	file      *os.File // nil when writing to stderr
	level     LogLevel
	lineCount int
	maxLines  int
}

var (
	globalMu     sync.Mutex
	globalLogger *Logger

	// defaultLogger serves package-level calls before any logger is set up.
	defaultLogger = &Logger{out: os.Stderr, level: LogLevelInfo}
)

// New creates a stderr-backed logger and installs it as the global logger.
func New(level LogLevel) *Logger {
	l := &Logger{out: os.Stderr, level: level}
	setGlobal(l)
	return l
}

// Open creates (or appends to) a line-capped log file at path and installs
// the resulting logger as the global logger.
func Open(path string, level LogLevel) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	l := &Logger{out: f, file: f, level: level, maxLines: MaxLogLines}
	l.lineCount = countLines(f)
	setGlobal(l)
	return l, nil
}

func setGlobal(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

func active() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger != nil {
		return globalLogger
	}
	return defaultLogger
}

// SetLevel changes the minimum level the logger emits.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// SetGlobalLevel changes the level on the active logger.
func SetGlobalLevel(level LogLevel) {
	active().SetLevel(level)
}

// Close closes the underlying file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) enabled(level LogLevel) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level
}

func (l *Logger) log(level LogLevel, format string, v ...any) {
	if !l.enabled(level) {
		return
	}
	msg := fmt.Sprintf("%s [%s] %s\n",
		time.Now().Format("2006/01/02 15:04:05"), level.String(), fmt.Sprintf(format, v...))
	l.Write([]byte(msg))
}

// Write implements io.Writer so the logger can back the stdlib log package.
// Writes count toward the line cap and trigger rotation when it is passed.
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.out.Write(p)
	if err != nil {
		return n, err
	}

	if l.file != nil && l.maxLines > 0 {
		l.lineCount += strings.Count(string(p), "\n")
		if l.lineCount > l.maxLines {
			l.rotate()
		}
	}
	return n, nil
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, v ...any) { l.log(LogLevelDebug, format, v...) }

// Info logs an info message.
func (l *Logger) Info(format string, v ...any) { l.log(LogLevelInfo, format, v...) }

// Warn logs a warning message.
func (l *Logger) Warn(format string, v ...any) { l.log(LogLevelWarn, format, v...) }

// Error logs an error message.
func (l *Logger) Error(format string, v ...any) { l.log(LogLevelError, format, v...) }

// Fatal logs an error message and exits with code 1.
func (l *Logger) Fatal(format string, v ...any) {
	l.log(LogLevelError, format, v...)
	os.Exit(1)
}

// Package-level logging functions that use the active logger.

func Debug(format string, v ...any) { active().Debug(format, v...) }
func Info(format string, v ...any)  { active().Info(format, v...) }
func Warn(format string, v ...any)  { active().Warn(format, v...) }
func Error(format string, v ...any) { active().Error(format, v...) }
func Fatal(format string, v ...any) { active().Fatal(format, v...) }

// noopFunc is a reusable no-op so disabled Trace calls do not allocate.
var noopFunc = func() {}

// Trace returns a function that logs the elapsed time for a named step when
// called. Usage: defer logger.Trace("detect")()
func Trace(name string) func() {
	l := active()
	if !l.enabled(LogLevelTrace) {
		return noopFunc
	}
	start := time.Now()
	return func() {
		l.log(LogLevelTrace, "%s: %v", name, time.Since(start))
	}
}

// countLines counts existing lines so appended runs respect the cap, then
// seeks back to the end for appending.
func countLines(f *os.File) int {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0
	}
	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		count++
	}
	f.Seek(0, io.SeekEnd)
	return count
}

// rotate trims the file to its newest maxLines lines, in place so the open
// handle stays valid. Called with the mutex held.
func (l *Logger) rotate() {
	if _, err := l.file.Seek(0, io.SeekStart); err != nil {
		return
	}

	var lines []string
	scanner := bufio.NewScanner(l.file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) > l.maxLines {
		lines = lines[len(lines)-l.maxLines:]
	}

	l.file.Truncate(0)
	l.file.Seek(0, io.SeekStart)
	for _, line := range lines {
		l.file.WriteString(line + "\n")
	}
	l.lineCount = len(lines)
}
