// Package logging builds the process logger.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stderr. format is "json" or "text".
func New(service, level, format string) *logrus.Entry {
	return NewWithWriter(os.Stderr, service, level, format)
}

func NewWithWriter(w io.Writer, service, level, format string) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(w)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger.WithField("service", service)
}
