package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SinkConfig describes the monitor log file
type SinkConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// FlushInterval is how often buffered lines reach the file.
	FlushInterval time.Duration
	Level         zapcore.Level
}

// Sink owns the monitor log: a zap logger writing "{time} {level} {json}"
// lines through a buffer into a rotated, append-only file.
type Sink struct {
	Logger *zap.Logger

	buf    *zapcore.BufferedWriteSyncer
	closer io.Closer
	closed bool
}

// NewEncoder returns the line encoder for the monitor log. The message field
// is dropped so each line is time, level and one JSON object.
func NewEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	})
}

// OpenSink creates the log directory, checks the file can be opened for
// appending and returns a Sink writing to it.
func OpenSink(cfg SinkConfig) (*Sink, error) {
	if cfg.Path == "" {
		return nil, errors.New("log file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	// lumberjack opens lazily; fail now rather than on the first record.
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return NewSink(zapcore.AddSync(lj), lj, cfg.FlushInterval, cfg.Level), nil
}

// NewSink wraps ws in a buffered syncer. closer may be nil.
func NewSink(ws zapcore.WriteSyncer, closer io.Closer, flushInterval time.Duration, level zapcore.Level) *Sink {
	buf := &zapcore.BufferedWriteSyncer{WS: ws, FlushInterval: flushInterval}
	core := zapcore.NewCore(NewEncoder(), buf, level)
	return &Sink{
		Logger: zap.New(core),
		buf:    buf,
		closer: closer,
	}
}

// Close flushes buffered lines and closes the file. It is safe to call twice.
func (s *Sink) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	// Sync flushes the buffer; Stop ends its flush goroutine.
	if err := s.Logger.Sync(); err != nil {
		errs = append(errs, err)
	}
	if err := s.buf.Stop(); err != nil {
		errs = append(errs, err)
	}
	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
