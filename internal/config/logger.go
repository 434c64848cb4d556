package config

import (
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// NewLogger returns the program logger configured by log.level. Logs go to
// stderr; stdout is reserved for rendered output.
func NewLogger(v *viper.Viper) *zap.Logger {
	color := term.IsTerminal(int(os.Stderr.Fd()))
	return newLogger(v.GetString("log.level"), zapcore.Lock(os.Stderr), color)
}

func newLogger(level string, ws zapcore.WriteSyncer, color bool) *zap.Logger {
	var min zapcore.Level
	switch level {
	case "debug":
		min = zapcore.DebugLevel
	case "normal", "":
		min = zapcore.InfoLevel
	default:
		return zap.NewNop()
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if color {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), ws, min)
	return zap.New(core).Named("blockmark")
}
