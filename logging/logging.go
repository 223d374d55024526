// Package logging configures the process-wide structured logger: JSON to
// a rotating file, human-readable to the console, tee'd together.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// L is the process-wide logger. Initialize must run before any package
// reaches for it; until then it is a no-op logger so tests that skip
// Initialize don't nil-panic.
var L = zap.NewNop()

// Initialize builds L with file rotation and a console tee. level is one
// of debug/info/warn/error (default info); logFile defaults to
// "soundmark.log".
func Initialize(level, logFile string) error {
	if logFile == "" {
		logFile = "soundmark.log"
	}

	lvl := parseLevel(level)

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     7,
		Compress:   true,
	})

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(os.Stdout),
		lvl,
	)

	jsonCfg := zap.NewProductionEncoderConfig()
	jsonCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), fileWriter, lvl)

	L = zap.New(zapcore.NewTee(consoleCore, fileCore), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return nil
}

// Close flushes buffered log entries before shutdown.
func Close() error {
	if L != nil {
		return L.Sync()
	}
	return nil
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
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
