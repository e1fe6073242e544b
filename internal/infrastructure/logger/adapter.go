package logger

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"onboarding-bot/internal/application/port/output"
	"onboarding-bot/internal/config"
)

var _ output.LoggerPort = (*LoggerAdapter)(nil)

type LoggerAdapter struct {
	sugar *zap.SugaredLogger
	base  *zap.Logger
}

// NewLoggerAdapter writes to stdout with the configured format and, when
// LogFile is set, to a rotated JSON file.
func NewLoggerAdapter(cfg config.LoggerConfig) (*LoggerAdapter, error) {
	return newLoggerAdapter(cfg, zapcore.Lock(os.Stdout))
}

func newLoggerAdapter(cfg config.LoggerConfig, console zapcore.WriteSyncer) (*LoggerAdapter, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	cores := []zapcore.Core{zapcore.NewCore(encoder(cfg.Format), console, level)}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(encoder("json"), file, level))
	}

	base := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel))
	if cfg.ServiceName != "" {
		base = base.Named(cfg.ServiceName)
	}

	return &LoggerAdapter{sugar: base.Sugar(), base: base}, nil
}

// NewNop is used by tests and by components built without a logger.
func NewNop() *LoggerAdapter {
	base := zap.NewNop()
	return &LoggerAdapter{sugar: base.Sugar(), base: base}
}

func encoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")

	if strings.EqualFold(format, "console") {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(cfg)
	}

	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func (l *LoggerAdapter) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

func (l *LoggerAdapter) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

func (l *LoggerAdapter) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

func (l *LoggerAdapter) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}

func (l *LoggerAdapter) WithField(key string, value any) output.LoggerPort {
	return &LoggerAdapter{sugar: l.sugar.With(key, value), base: l.base}
}

func (l *LoggerAdapter) WithFields(fields map[string]any) output.LoggerPort {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &LoggerAdapter{sugar: l.sugar.With(args...), base: l.base}
}

// Zap exposes the underlying logger for libraries that want one.
func (l *LoggerAdapter) Zap() *zap.Logger {
	return l.base
}

func (l *LoggerAdapter) Close() error {
	err := l.base.Sync()
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "sync /dev/stdout") ||
		strings.Contains(msg, "invalid argument") ||
		strings.Contains(msg, "inappropriate ioctl") {
		return nil
	}
	return err
}
