// Package adslog provides ads.Logger implementations backed by logr, the
// standard library log package (through stdr) and NATS.
package adslog

import (
	"io"
	"log"
	"sort"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

// Verbosity levels used when mapping onto logr.
const (
	levelInfo  = 0
	levelDebug = 1
)

// LogrLogger adapts a logr.Logger to ads.Logger.
type LogrLogger struct {
	logger logr.Logger
}

// FromLogr wraps a logr.Logger. Debug messages are logged at V(1).
func FromLogr(logger logr.Logger) *LogrLogger {
	return &LogrLogger{logger: logger}
}

// NewStd returns a logger writing to w through the standard log package.
// Debug output is hidden unless SetVerbosity(1) or higher is in effect.
func NewStd(w io.Writer, prefix string) *LogrLogger {
	std := log.New(w, prefix, log.LstdFlags)

	return FromLogr(stdr.NewWithOptions(std, stdr.Options{LogCaller: stdr.None}))
}

// SetVerbosity sets the global verbosity of loggers created by NewStd and
// returns the previous value.
func SetVerbosity(v int) int {
	return stdr.SetVerbosity(v)
}

// Logr returns the wrapped logger.
func (l *LogrLogger) Logr() logr.Logger {
	return l.logger
}

func (l *LogrLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.V(levelDebug).Info(msg, keysAndValues(fields)...)
}

func (l *LogrLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.V(levelInfo).Info(msg, keysAndValues(fields)...)
}

func (l *LogrLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.V(levelInfo).Info(msg, append([]interface{}{"severity", "warn"}, keysAndValues(fields)...)...)
}

// Error logs at error level. An "error" field holding an error value is
// passed to logr as the error.
func (l *LogrLogger) Error(msg string, fields map[string]interface{}) {
	var err error

	rest := fields
	if e, ok := fields["error"].(error); ok {
		err = e
		rest = make(map[string]interface{}, len(fields))

		for key, value := range fields {
			if key != "error" {
				rest[key] = value
			}
		}
	}

	l.logger.Error(err, msg, keysAndValues(rest)...)
}

// keysAndValues flattens fields into sorted logr key/value pairs.
func keysAndValues(fields map[string]interface{}) []interface{} {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	kv := make([]interface{}, 0, len(keys)*2)
	for _, key := range keys {
		kv = append(kv, key, fields[key])
	}

	return kv
}

// NopLogger discards everything.
type NopLogger struct{}

// Nop returns a logger that discards everything.
func Nop() NopLogger { return NopLogger{} }

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}

// MultiLogger fans every call out to several loggers.
type MultiLogger []ads.Logger

// Multi returns a logger that forwards to each non-nil logger in order.
func Multi(loggers ...ads.Logger) MultiLogger {
	out := make(MultiLogger, 0, len(loggers))

	for _, logger := range loggers {
		if logger != nil {
			out = append(out, logger)
		}
	}

	return out
}

func (m MultiLogger) Debug(msg string, fields map[string]interface{}) {
	for _, logger := range m {
		logger.Debug(msg, fields)
	}
}

func (m MultiLogger) Info(msg string, fields map[string]interface{}) {
	for _, logger := range m {
		logger.Info(msg, fields)
	}
}

func (m MultiLogger) Warn(msg string, fields map[string]interface{}) {
	for _, logger := range m {
		logger.Warn(msg, fields)
	}
}

func (m MultiLogger) Error(msg string, fields map[string]interface{}) {
	for _, logger := range m {
		logger.Error(msg, fields)
	}
}

// jsonSafe renders error values as their message.
func jsonSafe(fields map[string]interface{}) map[string]interface{} {
	if len(fields) == 0 {
		return nil
	}

	out := make(map[string]interface{}, len(fields))

	for key, value := range fields {
		if err, ok := value.(error); ok {
			out[key] = err.Error()

			continue
		}

		out[key] = value
	}

	return out
}

var (
	_ ads.Logger = (*LogrLogger)(nil)
	_ ads.Logger = NopLogger{}
	_ ads.Logger = MultiLogger(nil)
)
