// Package logging builds the process logger.
package logging

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// New returns a logger writing to stdout at level, formatted as "json" or text.
func New(level log.Level, format string) *log.Logger {
	logger := log.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(level)
	if format == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return logger
}
