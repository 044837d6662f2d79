package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// LogFileName is the log file kept inside the config directory
const LogFileName = "subcon.log"

// New returns a logger writing JSON lines to w. verbose enables debug output.
func New(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// NewFileLogger opens (or creates) the log file in dir. The console owns the
// terminal, so log output never goes to stdout or stderr. The returned closer
// must be called on exit.
func NewFileLogger(dir string, verbose bool) (*logrus.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}

	return New(f, verbose), f, nil
}

// Discard returns a logger that drops everything
func Discard() *logrus.Logger {
	return New(io.Discard, false)
}
