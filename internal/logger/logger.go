// Package logger builds the process wide logrus logger. It is constructed once
// in main and handed to every component as a logrus.FieldLogger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds logger configuration.
type Config struct {
	Level   string
	Service string
	// FilePath receives every entry when set.
	FilePath string
	// ErrorFilePath receives error and above when set.
	ErrorFilePath string
}

// AppLogger is a logrus logger that owns its output files.
type AppLogger struct {
	*logrus.Logger
	service string
	files   []*os.File
}

func newFormatter() logrus.Formatter {
	return &logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	}
}

// New creates an AppLogger writing JSON to stdout and the configured files.
func New(cfg Config) (*AppLogger, error) {
	return newWithStdout(cfg, os.Stdout)
}

func newWithStdout(cfg Config, stdout io.Writer) (*AppLogger, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	l.SetFormatter(newFormatter())

	app := &AppLogger{Logger: l, service: cfg.Service}

	out := stdout
	if cfg.FilePath != "" {
		f, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		app.files = append(app.files, f)
		out = io.MultiWriter(stdout, f)
	}
	l.SetOutput(out)

	if cfg.ErrorFilePath != "" {
		f, err := openLogFile(cfg.ErrorFilePath)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.files = append(app.files, f)
		l.AddHook(&levelFileHook{
			writer:    f,
			formatter: newFormatter(),
			levels:    []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel},
		})
	}

	return app, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}

// Entry returns the logger tagged with the service name.
func (l *AppLogger) Entry() *logrus.Entry {
	if l.service == "" {
		return logrus.NewEntry(l.Logger)
	}
	return l.WithField("service", l.service)
}

// Close closes any log files.
func (l *AppLogger) Close() error {
	var firstErr error
	for _, f := range l.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.files = nil
	return firstErr
}

// levelFileHook copies entries of the given levels to a separate writer.
type levelFileHook struct {
	writer    io.Writer
	formatter logrus.Formatter
	levels    []logrus.Level
}

func (h *levelFileHook) Levels() []logrus.Level {
	return h.levels
}

func (h *levelFileHook) Fire(entry *logrus.Entry) error {
	b, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(b)
	return err
}
