package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with the service name it was built for.
type Logger struct {
	zl      zerolog.Logger
	service string
}

// Init installs the global logger built from cfg.
func Init(cfg *Config) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.ApplyDefaults()
	SetGlobalLogger(New(cfg, cfg.ServiceName))
}

// New builds a logger writing to the output named in cfg.
func New(cfg *Config, serviceName string) *Logger {
	return NewWithWriter(outputWriter(cfg.Output), cfg, serviceName)
}

// NewWithWriter builds a logger writing to w. Format "json" writes one JSON
// object per line; "console" and "text" write human readable lines.
func NewWithWriter(w io.Writer, cfg *Config, serviceName string) *Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	switch strings.ToLower(cfg.Format) {
	case "console", "text":
		zl = zerolog.New(consoleWriter(w, cfg, serviceName))
	default:
		zl = zerolog.New(w)
	}
	zl = zl.Level(level)

	zc := zl.With()
	if serviceName != "" {
		zc = zc.Str("service", serviceName)
	}
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}

	return &Logger{zl: zc.Logger(), service: serviceName}
}

// NewDefault creates a console logger at info level.
func NewDefault(serviceName string) *Logger {
	cfg := &Config{ServiceName: serviceName}
	cfg.ApplyDefaults()
	return New(cfg, serviceName)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

type contextKey string

const (
	requestIDKey     contextKey = "request_id"
	correlationIDKey contextKey = "correlation_id"
)

// ContextWithRequestID stores a gateway request id for WithContext.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithCorrelationID stores the inbound correlation id for WithContext.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext returns the correlation id stored in ctx, if any.
func CorrelationIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(correlationIDKey).(string); ok {
		return v
	}
	return ""
}

// WithContext returns a logger enriched with the ids carried by ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	zc := l.zl.With()
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		zc = zc.Str(FieldRequestID, v)
	}
	if v, ok := ctx.Value(correlationIDKey).(string); ok && v != "" {
		zc = zc.Str(FieldCorrelationID, v)
	}
	return &Logger{zl: zc.Logger(), service: l.service}
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{zl: l.zl.With().Str(FieldComponent, name).Logger(), service: l.service}
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	zc := l.zl.With()
	for k, v := range fields {
		zc = zc.Interface(k, v)
	}
	return &Logger{zl: zc.Logger(), service: l.service}
}

// WithError returns a logger with an error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{zl: l.zl.With().Err(err).Logger(), service: l.service}
}

// Zerolog returns the underlying zerolog.Logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Error(), msg, fields)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Fatal(), msg, fields)
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// SetGlobalLogger sets the global logger instance.
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// GetGlobalLogger returns the global logger, creating a default one if needed.
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewDefault("")
	}
	return globalLogger
}

func Debug(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Debug(msg, fields...) }
func Info(msg string, fields ...map[string]interface{})  { GetGlobalLogger().Info(msg, fields...) }
func Warn(msg string, fields ...map[string]interface{})  { GetGlobalLogger().Warn(msg, fields...) }
func Error(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Error(msg, fields...) }
func Fatal(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Fatal(msg, fields...) }

// WithContext returns a context-enriched logger from the global logger.
func WithContext(ctx context.Context) *Logger {
	return GetGlobalLogger().WithContext(ctx)
}

// WithComponent returns a component-tagged logger from the global logger.
func WithComponent(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

func emit(event *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, fm := range fields {
		for k, v := range fm {
			event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

func outputWriter(output string) io.Writer {
	switch strings.ToLower(output) {
	case "stderr":
		return os.Stderr
	case "discard":
		return io.Discard
	default:
		return os.Stdout
	}
}

var levelTags = map[string]string{
	"trace": "TRC",
	"debug": "DBG",
	"info":  "INF",
	"warn":  "WRN",
	"error": "ERR",
	"fatal": "FTL",
}

var levelColors = map[string]string{
	"debug": "\033[36m",
	"info":  "\033[32m",
	"warn":  "\033[33m",
	"error": "\033[31m",
	"fatal": "\033[35m",
}

func consoleWriter(w io.Writer, cfg *Config, serviceName string) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:          w,
		TimeFormat:   "15:04:05",
		NoColor:      cfg.NoColor,
		FieldsExclude: []string{"service"},
		FormatLevel: func(i interface{}) string {
			lvl, _ := i.(string)
			tag, ok := levelTags[lvl]
			if !ok {
				tag = strings.ToUpper(fmt.Sprintf("%v", i))
			}
			out := "[" + tag + "]"
			if color, ok := levelColors[lvl]; ok && !cfg.NoColor {
				out = color + out + "\033[0m"
			}
			if len(serviceName) >= 3 {
				out = "[" + strings.ToUpper(serviceName[:3]) + "]" + out
			}
			return out
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s:", i)
		},
	}
}
