package logger

import (
	"log"

	"go.uber.org/zap"
)

// Log is the global logger. Init must run before anything logs.
var Log *zap.Logger

// Init builds the global logger: JSON output in production, console
// output everywhere else.
func Init(env string) {
	var err error
	if env == "production" {
		Log, err = zap.NewProduction()
	} else {
		Log, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
