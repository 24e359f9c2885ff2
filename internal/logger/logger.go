// Package logger holds the process-wide zap logger.  It is initialized once
// from main and fetched everywhere else through L(); the fallback in L()
// exists only so tests can log without calling Init first.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Init builds the singleton logger for the given environment.  "prod" gets
// the JSON production config, anything else the human-readable development
// config.  Only the first call has any effect.
func Init(env string) {
	once.Do(func() {
		var err error
		if env == "prod" {
			instance, err = zap.NewProduction()
		} else {
			instance, err = zap.NewDevelopment()
		}
		if err != nil {
			instance = zap.NewNop()
		}
	})
}

// L returns the singleton logger, initializing a development logger if
// Init was never called.
func L() *zap.Logger {
	if instance == nil {
		Init("dev")
	}
	return instance
}

// Named returns a logger tagged with a component name.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Sync flushes any buffered log entries.  Call with defer from main.
func Sync() error {
	if instance != nil {
		return instance.Sync()
	}
	return nil
}
