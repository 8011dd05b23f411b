package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger writes backfill session logs for one symbol/interval pair.
type Logger struct {
	symbol   string
	interval string
	logFile  *os.File
	logger   *log.Logger
	mu       sync.Mutex
	logDir   string
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelStage   LogLevel = "STAGE"
)

// NewLogger creates a file logger for the specified symbol and interval.
// One log file is written per day under logs/.
func NewLogger(symbol, interval string) (*Logger, error) {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("backfill_%s_%s_%s.log", sanitize(symbol), interval, timestamp)
	logPath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		symbol:   symbol,
		interval: interval,
		logFile:  file,
		logger:   log.New(file, "", 0),
		logDir:   logDir,
	}

	l.writeSessionHeader()
	return l, nil
}

// NewConsoleLogger creates a logger that writes to the given writer instead
// of a file. Used by tests and by library callers that manage their own
// output.
func NewConsoleLogger(w io.Writer, symbol, interval string) *Logger {
	return &Logger{
		symbol:   symbol,
		interval: interval,
		logger:   log.New(w, "", 0),
	}
}

// writeSessionHeader writes a session start header to the log
func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
📥 WARMUP BACKFILL SESSION STARTED
================================================================================
Symbol: %s | Target Interval: %s
Started: %s
================================================================================
`, l.symbol, l.interval, time.Now().Format("2006-01-02 15:04:05"))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	l.logger.Println(fmt.Sprintf("[%s] [%s] %s", timestamp, level, message))
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// Stage logs a pipeline stage transition
func (l *Logger) Stage(format string, args ...interface{}) {
	l.Log(LogLevelStage, format, args...)
}

// LogError logs an error with context
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// LogChunkResult logs the outcome of a single chunk request.
func (l *Logger) LogChunkResult(seq int, durationHours float64, end time.Time, bars int, err error) {
	if err != nil {
		l.Warning("Chunk %d (%.1fh ending %s) failed: %v - continuing with remaining chunks",
			seq, durationHours, end.Format("2006-01-02 15:04"), err)
		return
	}
	l.Info("Chunk %d (%.1fh ending %s) returned %d bars",
		seq, durationHours, end.Format("2006-01-02 15:04"), bars)
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		timestamp := time.Now().Format("2006-01-02 15:04:05")
		footer := fmt.Sprintf(`
================================================================================
🛑 WARMUP BACKFILL SESSION ENDED
================================================================================
Ended: %s
================================================================================

`, timestamp)
		l.logger.Print(footer)

		return l.logFile.Close()
	}
	return nil
}

// sanitize makes a symbol safe for use in a filename ("EUR/USD" -> "EUR-USD").
func sanitize(symbol string) string {
	out := make([]rune, 0, len(symbol))
	for _, r := range symbol {
		if r == '/' || r == ':' || r == ' ' {
			r = '-'
		}
		out = append(out, r)
	}
	return string(out)
}
