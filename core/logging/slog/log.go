package slog

import (
	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/logging/handler"
)

var rootHandler = handler.NewRootHandler(nil)
var globalLogger = logging.NewDefaultLogger("Global", rootHandler, nil)

// BindGlobalHandler routes the global logger and every logger created over
// Handler() to h.
func BindGlobalHandler(h logging.ILogHandler) {
	rootHandler.SetProxy(h)
}

// Handler returns the handler bound by BindGlobalHandler, resolved on every record.
func Handler() logging.ILogHandler {
	return rootHandler
}

func Tracef(format string, args ...any) {
	globalLogger.Tracef(format, args...)
}

func Debugf(format string, args ...any) {
	globalLogger.Debugf(format, args...)
}

func Infof(format string, args ...any) {
	globalLogger.Infof(format, args...)
}

func Warnf(format string, args ...any) {
	globalLogger.Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	globalLogger.Errorf(format, args...)
}

func Fatalf(format string, args ...any) {
	globalLogger.Fatalf(format, args...)
}
