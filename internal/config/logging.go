package config

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

// NewLogger writes to out and, when c.File is set, to a rotated JSON log
// file as well.
func NewLogger(c Log, development bool, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	level := logrus.InfoLevel
	if development {
		level = logrus.DebugLevel
	}
	if c.Level != "" {
		var err error
		if level, err = logrus.ParseLevel(c.Level); err != nil {
			return nil, err
		}
	}
	logger.SetLevel(level)

	if development {
		logger.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if c.File != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   c.File,
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAge,
			Level:      level,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return nil, fmt.Errorf("unable to open log file %s: %w", c.File, err)
		}
		logger.AddHook(hook)
	}

	return logger, nil
}

// Adopt makes target log like source. Library packages keep their own
// package-level loggers.
func Adopt(target, source *logrus.Logger) {
	target.SetOutput(source.Out)
	target.SetFormatter(source.Formatter)
	target.SetLevel(source.GetLevel())
	target.ReplaceHooks(source.Hooks)
}
