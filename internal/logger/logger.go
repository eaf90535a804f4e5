package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "freshharvest-be"

var log *zap.Logger

// Init builds the global logger for the given environment. LOG_LEVEL
// overrides the environment's default level; an unknown value is
// reported and ignored.
func Init(env string) {
	level := os.Getenv("LOG_LEVEL")

	built, err := New(env, level)
	if err != nil {
		built, err = New(env, "")
		if err != nil {
			panic(err)
		}
		built.Warn("ignoring LOG_LEVEL", zap.String("value", level))
	}
	log = built
}

// New returns a logger tagged with the service name and env.
func New(env, level string) (*zap.Logger, error) {
	cfg := developmentConfig()
	if env == "production" {
		cfg = productionConfig()
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	built, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, err
	}
	return built.With(
		zap.String("service", serviceName),
		zap.String("env", env),
	), nil
}

func productionConfig() zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	cfg.Sampling = nil
	return cfg
}

func developmentConfig() zap.Config {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

func L() *zap.Logger {
	if log == nil {
		Init(os.Getenv("APP_ENV"))
	}
	return log
}

func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
