package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger — логгер, которым пользуются все слои приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
}

type ZapLogger struct {
	log *zap.SugaredLogger
}

// NewZapLogger создаёт JSON-логгер в stdout. Уровень берётся из LOG_LEVEL (debug, info, warn, error).
func NewZapLogger() (*ZapLogger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(parseLevel(os.Getenv("LOG_LEVEL")))
	zapCfg.EncoderConfig.TimeKey = "time"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := zapCfg.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return &ZapLogger{log: l.Sugar()}, nil
}

func (l *ZapLogger) Debugf(format string, args ...any) {
	l.log.Debugf(format, args...)
}

func (l *ZapLogger) Infof(format string, args ...any) {
	l.log.Infof(format, args...)
}

func (l *ZapLogger) Warnf(format string, args ...any) {
	l.log.Warnf(format, args...)
}

func (l *ZapLogger) Errorf(err error, format string, args ...any) {
	l.log.With(zap.Error(err)).Errorf(format, args...)
}

// Sync сбрасывает буферы логгера.
func (l *ZapLogger) Sync() error {
	return l.log.Sync()
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
