// Package logger is the process-wide structured logger.
//
// Call sites pass a message followed by alternating key/value pairs:
//
//	logger.Info("arm updated", "section", "pricing", "pulls", 4)
//	logger.Error("failed to load arms", err)
//
// A bare error (without a preceding key) is logged under the "error" field.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

func init() {
	Init("development")
}

// Init configures the global logger for an environment. "production" emits
// JSON; anything else uses the console writer. LOG_LEVEL overrides the level.
func Init(environment string) {
	InitWithWriter(environment, os.Stderr)
}

// InitWithWriter is Init with an explicit output, used by tests.
func InitWithWriter(environment string, out io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.MessageFieldName = "message"

	level := zerolog.DebugLevel
	if strings.EqualFold(environment, "production") {
		level = zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL"))); err == nil && lvl != zerolog.NoLevel {
		level = lvl
	}

	output := out
	if !strings.EqualFold(environment, "production") {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	log = zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func Debug(msg string, args ...any) { emit(get().Debug(), msg, args) }
func Info(msg string, args ...any)  { emit(get().Info(), msg, args) }
func Warn(msg string, args ...any)  { emit(get().Warn(), msg, args) }
func Error(msg string, args ...any) { emit(get().Error(), msg, args) }

// Fatal logs and exits the process.
func Fatal(msg string, args ...any) { emit(get().Fatal(), msg, args) }

func get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

func emit(ev *zerolog.Event, msg string, args []any) {
	if ev == nil {
		return
	}
	fields := make(map[string]any, len(args)/2)
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case error:
			ev = ev.Err(v)
		case string:
			if i+1 < len(args) {
				fields[v] = args[i+1]
				i++
			} else {
				fields["detail"] = v
			}
		default:
			fields[fmt.Sprintf("arg%d", i)] = v
		}
	}
	if len(fields) > 0 {
		ev = ev.Fields(fields)
	}
	ev.Msg(msg)
}
