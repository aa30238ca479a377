package observability

import (
	"github.com/railzwaylabs/invoicefmt/internal/config"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Module = fx.Module("observability",
	fx.Provide(NewAtomicLevel),
	fx.Provide(NewLogger),
	fx.Provide(NewMetrics),
	fx.Provide(NewTracerProvider),
	fx.Provide(func(tp *sdktrace.TracerProvider) trace.TracerProvider { return tp }),
	fx.Invoke(WatchLogLevel),
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

// NewAtomicLevel parses the configured level, falling back to info.
func NewAtomicLevel(cfg config.Config) zap.AtomicLevel {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	return zap.NewAtomicLevelAt(level)
}

// NewLogger creates a structured zap logger.
// debug level → colorized console; otherwise → JSON.
func NewLogger(cfg config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if level.Level() == zapcore.DebugLevel {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(
		zap.String("app", cfg.AppName),
		zap.String("env", cfg.Environment),
	), nil
}

// WatchLogLevel applies log level changes from a watched config file.
func WatchLogLevel(loader *config.Loader, level zap.AtomicLevel, log *zap.Logger) {
	loader.OnChange(func(cfg config.Config) {
		next, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			log.Warn("ignoring invalid log level", zap.String("log_level", cfg.LogLevel))
			return
		}
		if next != level.Level() {
			level.SetLevel(next)
			log.Info("log level changed", zap.String("log_level", next.String()))
		}
	})
}
