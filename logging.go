package main

import "github.com/wailsapp/wails/v2/pkg/logger"

// appLogLevel is the level for both the wails runtime and the app's own log.
const appLogLevel = logger.INFO

// levelLogger drops Trace, Debug, Info and Warning messages below level.
// wails filters its own output by options.App.LogLevel, but the logger
// handed to it prints everything when called directly.
type levelLogger struct {
	logger.Logger
	level logger.LogLevel
}

func newLevelLogger(l logger.Logger, level logger.LogLevel) *levelLogger {
	return &levelLogger{Logger: l, level: level}
}

func (l *levelLogger) enabled(level logger.LogLevel) bool { return level >= l.level }

func (l *levelLogger) Trace(message string) {
	if l.enabled(logger.TRACE) {
		l.Logger.Trace(message)
	}
}

func (l *levelLogger) Debug(message string) {
	if l.enabled(logger.DEBUG) {
		l.Logger.Debug(message)
	}
}

func (l *levelLogger) Info(message string) {
	if l.enabled(logger.INFO) {
		l.Logger.Info(message)
	}
}

func (l *levelLogger) Warning(message string) {
	if l.enabled(logger.WARNING) {
		l.Logger.Warning(message)
	}
}

// debugEnabled reports whether Debug output from log would be shown.
func debugEnabled(log logger.Logger) bool {
	if ll, ok := log.(*levelLogger); ok {
		return ll.enabled(logger.DEBUG)
	}
	return true
}
