package logger

import (
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Fields are structured key/value pairs attached to a log line.
type Fields = map[string]interface{}

// Logger wraps zerolog.Logger and records the calling site on every line.
type Logger struct {
	zl zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level       string // debug, info, warn, error, fatal, disabled
	Format      string // json, console
	Output      io.Writer
	EnableColor bool
}

var (
	mu     sync.RWMutex
	global *Logger
)

// Initialize replaces the global logger.
func Initialize(cfg Config) {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	var out io.Writer = os.Stdout
	if cfg.Output != nil {
		out = cfg.Output
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    !cfg.EnableColor,
		}
	}

	zl := zerolog.New(out).With().Timestamp().Logger()
	log.Logger = zl

	mu.Lock()
	global = &Logger{zl: zl}
	mu.Unlock()
}

// ParseLevel maps a level name to zerolog; unknown names mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the global logger, creating a console logger on first use.
func Get() *Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}

	Initialize(Config{Level: "info", Format: "console", EnableColor: true})
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// WithContext returns a child logger carrying fields on every line.
func (l *Logger) WithContext(fields Fields) *Logger {
	ctx := l.zl.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zl: ctx.Logger()}
}

// With is WithContext for a single field.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

// write adds the caller skip frames above it plus optional fields.
func write(event *zerolog.Event, skip int, msg string, fields []Fields) {
	if event == nil {
		return
	}
	if pc, file, line, ok := runtime.Caller(skip); ok {
		event = event.Str("caller", zerolog.CallerMarshalFunc(pc, file, line))
	}
	for _, f := range fields {
		for k, v := range f {
			event = event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

func (l *Logger) Debug(msg string, fields ...Fields) {
	write(l.zl.Debug(), 2, msg, fields)
}

func (l *Logger) Info(msg string, fields ...Fields) {
	write(l.zl.Info(), 2, msg, fields)
}

func (l *Logger) Warn(msg string, fields ...Fields) {
	write(l.zl.Warn(), 2, msg, fields)
}

// Error logs msg at error level. err may be nil.
func (l *Logger) Error(msg string, err error, fields ...Fields) {
	write(l.zl.Error().Err(err), 2, msg, fields)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, err error, fields ...Fields) {
	write(l.zl.Fatal().Err(err), 2, msg, fields)
}

// Package-level helpers on the global logger

func Debug(msg string, fields ...Fields) {
	write(Get().zl.Debug(), 2, msg, fields)
}

func Info(msg string, fields ...Fields) {
	write(Get().zl.Info(), 2, msg, fields)
}

func Warn(msg string, fields ...Fields) {
	write(Get().zl.Warn(), 2, msg, fields)
}

func Error(msg string, err error, fields ...Fields) {
	write(Get().zl.Error().Err(err), 2, msg, fields)
}

func Fatal(msg string, err error, fields ...Fields) {
	write(Get().zl.Fatal().Err(err), 2, msg, fields)
}

func WithContext(fields Fields) *Logger {
	return Get().WithContext(fields)
}
