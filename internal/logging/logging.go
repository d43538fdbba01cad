package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// SetupLogging builds the process-wide JSON logger. LOG_LEVEL overrides the
// info default; unparseable values fall back rather than fail startup.
func SetupLogging() *logrus.Logger {
	level := logrus.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if parsed, err := logrus.ParseLevel(raw); err == nil {
			level = parsed
		}
	}

	logger := logrus.Logger{
		Formatter: &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		},
		Out:   os.Stdout,
		Level: level,
	}

	return &logger
}
