// internal/infra/logger/logger.go
package logger

import (
	"os"
	"strings"

	"subscription_reminder_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is the global logger instance
var Log = logrus.New()

// Init configures the global logger from the application config: level from
// LOG_LEVEL, format from the environment name. Production and staging log
// JSON for ingestion; everything else gets a human-readable text format.
func Init(cfg *config.AppConfig) {
	Log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = logrus.InfoLevel
		Log.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, defaulting to info")
	}
	Log.SetLevel(level)
	Log.SetFormatter(formatterFor(cfg.Environment))
}

func formatterFor(environment string) logrus.Formatter {
	switch strings.ToLower(environment) {
	case "production", "staging":
		return &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		}
	default:
		return &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		}
	}
}

// Get returns the configured global logger.
func Get() *logrus.Logger {
	return Log
}
