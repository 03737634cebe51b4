// Package logging provides the structured logger used by the client and CLI.
package logging

import (
	"io"
	"sort"

	"github.com/hashicorp/go-hclog"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Options configures a Logger created by New.
type Options struct {
	Name    string
	Verbose bool
	Output  io.Writer
	JSON    bool
}

// HCLogger adapts hashicorp/go-hclog to the Logger interface.
type HCLogger struct {
	logger hclog.Logger
}

// New creates an hclog-backed Logger. Verbose enables debug output.
func New(opts Options) *HCLogger {
	level := hclog.Info
	if opts.Verbose {
		level = hclog.Debug
	}

	return &HCLogger{
		logger: hclog.New(&hclog.LoggerOptions{
			Name:       opts.Name,
			Level:      level,
			Output:     opts.Output,
			JSONFormat: opts.JSON,
			Color:      hclog.ColorOff,
		}),
	}
}

// HCLog returns the underlying hclog.Logger. It satisfies
// retryablehttp.LeveledLogger.
func (l *HCLogger) HCLog() hclog.Logger {
	return l.logger
}

func (l *HCLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, flatten(fields)...)
}

func (l *HCLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, flatten(fields)...)
}

func (l *HCLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, flatten(fields)...)
}

func (l *HCLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, flatten(fields)...)
}

// flatten turns a field map into hclog's key/value argument list, sorted by key.
func flatten(fields map[string]interface{}) []interface{} {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	args := make([]interface{}, 0, len(fields)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}

	return args
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}
