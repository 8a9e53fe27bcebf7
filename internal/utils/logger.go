package utils

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logMu  sync.RWMutex
	logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// InitLogger configures the global logger to write JSON lines to stdout and,
// when file is set, to a rotating log file.
func InitLogger(file string, maxSizeMB, maxBackups, maxAgeDays int, compress bool, level string) {
	var out io.Writer = os.Stdout
	if file != "" {
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   compress,
		}
		out = zerolog.MultiLevelWriter(os.Stdout, rotator)
	}

	l := zerolog.New(out).With().Timestamp().Logger().Level(parseLevel(level))

	logMu.Lock()
	logger = l
	logMu.Unlock()
}

// SetLogLevel changes the minimum level of the global logger. Unknown levels
// fall back to info.
func SetLogLevel(level string) {
	logMu.Lock()
	logger = logger.Level(parseLevel(level))
	logMu.Unlock()
}

// LogTo sends log lines to w only. Command line tools use it to keep stdout
// free for their output.
func LogTo(w io.Writer, level string) {
	l := zerolog.New(w).With().Timestamp().Logger().Level(parseLevel(level))

	logMu.Lock()
	logger = l
	logMu.Unlock()
}

// SetLoggerForTest replaces the global logger.
func SetLoggerForTest(l zerolog.Logger) {
	logMu.Lock()
	logger = l
	logMu.Unlock()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Debug logs msg with key/value pairs at debug level.
func Debug(msg string, kv ...interface{}) { write(zerolog.DebugLevel, msg, kv) }

// Info logs msg with key/value pairs at info level.
func Info(msg string, kv ...interface{}) { write(zerolog.InfoLevel, msg, kv) }

// Warn logs msg with key/value pairs at warn level.
func Warn(msg string, kv ...interface{}) { write(zerolog.WarnLevel, msg, kv) }

// Error logs msg with key/value pairs at error level.
func Error(msg string, kv ...interface{}) { write(zerolog.ErrorLevel, msg, kv) }

func write(level zerolog.Level, msg string, kv []interface{}) {
	logMu.RLock()
	l := logger
	logMu.RUnlock()

	ev := l.WithLevel(level)
	if ev == nil {
		return
	}
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 >= len(kv) {
			// dangling key
			ev = ev.Interface(key, nil)
			break
		}
		switch v := kv[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}
