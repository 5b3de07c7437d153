package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	log  *slog.Logger
	once sync.Once
)

// Init configures the process-wide logger. Level is read from LOG_LEVEL
// (debug|info|warn|error, default info). Safe to call more than once.
func Init() {
	once.Do(func() {
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: levelFromEnv(),
		}))
	})
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func get() *slog.Logger {
	if log == nil {
		Init()
	}
	return log
}

// Info logs at info level with alternating key/value pairs.
func Info(msg string, kv ...any) {
	get().Info(msg, kv...)
}

// Warn logs at warn level with alternating key/value pairs.
func Warn(msg string, kv ...any) {
	get().Warn(msg, kv...)
}

// Error logs at error level with alternating key/value pairs.
func Error(msg string, kv ...any) {
	get().Error(msg, kv...)
}

// Debug logs at debug level with alternating key/value pairs.
func Debug(msg string, kv ...any) {
	get().Debug(msg, kv...)
}
