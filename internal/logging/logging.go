package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options selects where logs go.
type Options struct {
	Level string
	File  string
	// Interactive is set while the TUI owns the terminal; logs must not reach
	// stderr then, so they go to File or are discarded.
	Interactive bool
}

// New builds a logger. The returned closer releases the log file, if any.
func New(opt Options) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})

	level := logrus.WarnLevel
	if s := strings.TrimSpace(opt.Level); s != "" {
		lv, err := logrus.ParseLevel(s)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		level = lv
	}
	logger.SetLevel(level)

	if path := strings.TrimSpace(opt.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		logger.SetOutput(f)
		return logger, f, nil
	}
	if opt.Interactive {
		logger.SetOutput(io.Discard)
	} else {
		logger.SetOutput(os.Stderr)
	}
	return logger, io.NopCloser(nil), nil
}

// Component returns an entry tagged with the component name.
func Component(l *logrus.Logger, name string) *logrus.Entry {
	return l.WithField("component", name)
}
