package logger

import (
	"os"
	"strings"

	"github.com/Scalingo/github-popularity-score/config"
	"github.com/sirupsen/logrus"
)

// Setup will configure logrus logger
// logs always go to stderr so the search command can print its results on stdout
func Setup(cfg config.Config) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if cfg.Logs.OutputLogsAsJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	level := StringToLogrusLogType(cfg.Logs.Level)
	logrus.SetLevel(level)

	logrus.WithFields(logrus.Fields{
		"level": level.String(),
		"json":  cfg.Logs.OutputLogsAsJSON,
	}).Debug("logger configured")
}

// StringToLogrusLogType will convert string to the right logrus level
// config.Validate rejects unknown levels, error is only the fallback for configurations built in code
func StringToLogrusLogType(logLevel string) logrus.Level {
	level, err := logrus.ParseLevel(strings.TrimSpace(logLevel))
	if err != nil {
		return logrus.ErrorLevel
	}

	return level
}
