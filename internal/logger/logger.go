// Package logger 根据配置构建 zap 日志
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"dadaocheng/exploration/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New 创建 zap.Logger
// format=json 使用生产配置，其余使用开发配置；output=file 时写入 Path
func New(conf config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(conf.Level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", conf.Level, err)
	}

	var zc zap.Config
	if conf.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if conf.Output == "file" && conf.Path != "" {
		if err := os.MkdirAll(filepath.Dir(conf.Path), 0o755); err != nil {
			return nil, fmt.Errorf("创建日志目录失败: %w", err)
		}
		zc.OutputPaths = []string{conf.Path}
		zc.ErrorOutputPaths = []string{conf.Path}
	} else {
		zc.OutputPaths = []string{"stdout"}
		zc.ErrorOutputPaths = []string{"stderr"}
	}

	return zc.Build()
}

// Must 创建日志，失败则 panic
func Must(conf config.LogConfig) *zap.Logger {
	l, err := New(conf)
	if err != nil {
		panic(err)
	}
	return l
}
