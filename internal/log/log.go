// Package log provides centralized logging using zap.
package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

var log *zap.SugaredLogger
var baseLogger *zap.Logger

// Init initializes the package-level logger.
func Init(debug bool) error {
	var zapLogger *zap.Logger
	var err error

	if debug {
		zapLogger, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		zapLogger, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %v", err)
	}

	baseLogger = zapLogger
	log = zapLogger.Sugar()
	return nil
}

// GetZapLogger returns the base zap logger for cases where it's needed (like GORM).
func GetZapLogger() *zap.Logger {
	if baseLogger == nil {
		baseLogger, _ = zap.NewProduction(zap.AddCallerSkip(1))
		log = baseLogger.Sugar()
	}
	return baseLogger
}

// GetSugaredLogger returns the sugared logger instance.
func GetSugaredLogger() *zap.SugaredLogger {
	if log == nil {
		baseLogger, _ = zap.NewProduction(zap.AddCallerSkip(1))
		log = baseLogger.Sugar()
	}
	return log
}

// Sync flushes any buffered log entries.
func Sync() {
	if log != nil {
		log.Sync()
	}
}

func Debug(args ...interface{})                       { GetSugaredLogger().Debug(args...) }
func Debugf(template string, args ...interface{})     { GetSugaredLogger().Debugf(template, args...) }
func Debugw(msg string, keysAndValues ...interface{}) { GetSugaredLogger().Debugw(msg, keysAndValues...) }
func Info(args ...interface{})                        { GetSugaredLogger().Info(args...) }
func Infof(template string, args ...interface{})      { GetSugaredLogger().Infof(template, args...) }
func Infow(msg string, keysAndValues ...interface{})  { GetSugaredLogger().Infow(msg, keysAndValues...) }
func Warn(args ...interface{})                        { GetSugaredLogger().Warn(args...) }
func Warnf(template string, args ...interface{})      { GetSugaredLogger().Warnf(template, args...) }
func Warnw(msg string, keysAndValues ...interface{})  { GetSugaredLogger().Warnw(msg, keysAndValues...) }
func Error(args ...interface{})                       { GetSugaredLogger().Error(args...) }
func Errorf(template string, args ...interface{})     { GetSugaredLogger().Errorf(template, args...) }
func Errorw(msg string, keysAndValues ...interface{}) { GetSugaredLogger().Errorw(msg, keysAndValues...) }

// Fatal logs a fatal message and exits.
func Fatal(args ...interface{}) {
	GetSugaredLogger().Fatal(args...)
	os.Exit(1)
}
