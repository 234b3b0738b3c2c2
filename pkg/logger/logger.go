package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/noah-isme/here-event-os/pkg/config"
)

// New builds the process logger. Production uses the JSON production preset, everything else the
// development preset; LOG_FORMAT and LOG_LEVEL override encoding and level.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	zapCfg.Encoding = encoding(cfg.Log.Format)
	zapCfg.Level = zap.NewAtomicLevelAt(level(cfg.Log.Level, zapcore.InfoLevel))
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build(zap.Fields(zap.String("service", "here-event-os")))
}

// NewCLI builds a quiet console logger on stderr so command output on stdout stays clean.
// verbose lowers the level to debug.
func NewCLI(cfg *config.Config, verbose bool) *zap.Logger {
	lvl := level(cfg.Log.Level, zapcore.WarnLevel)
	if verbose {
		lvl = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), lvl)
	return zap.New(core)
}

func encoding(format string) string {
	if format == "console" {
		return "console"
	}
	return "json"
}

func level(raw string, fallback zapcore.Level) zapcore.Level {
	if raw == "" {
		return fallback
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		return fallback
	}
	return lvl
}
