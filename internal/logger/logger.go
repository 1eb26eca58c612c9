package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a new structured logger.
// Production output is JSON on stdout; anything else is colored console output.
func New(env string) (*zap.Logger, error) {
	return build(env, []string{"stdout"})
}

// NewCLI creates a logger for command-line tools. Logs go to stderr so
// command output on stdout stays machine-readable.
func NewCLI(env string, verbose bool) (*zap.Logger, error) {
	log, err := build(env, []string{"stderr"})
	if err != nil {
		return nil, err
	}
	if verbose {
		return log, nil
	}
	return log.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel)), nil
}

func build(env string, outputs []string) (*zap.Logger, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.Encoding = "json"
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.OutputPaths = outputs
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

// NewWithDefaults creates a logger using SERVER_ENV, falling back to a production logger
func NewWithDefaults() *zap.Logger {
	env := os.Getenv("SERVER_ENV")
	if env == "" {
		env = "development"
	}

	logger, err := New(env)
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	return logger
}
