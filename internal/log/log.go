// Package log configures the process-wide logrus logger.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/walshb/ncspot/internal/config"
)

// Setup applies logging configuration. Output goes to stderr unless a
// log file is configured; a TUI frontend would otherwise fight the
// logger for the terminal.
func Setup(cfg config.LogConfig) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logrus.SetOutput(f)
	}

	return nil
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}
