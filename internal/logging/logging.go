package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. Output goes to stderr and, when path is
// set, to a log file as well; a file that cannot be opened downgrades to
// stderr-only with a warning rather than failing the run.
func New(path string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)

	if path == "" {
		return log
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.WithError(err).Warn("could not open log file, logging to stderr only")
		return log
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return log
}
