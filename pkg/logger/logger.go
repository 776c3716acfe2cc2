// Package logger 基于zap构建应用日志
//
// Output取值：
//   - stdout / stderr：标准输出
//   - 其他值视为文件路径，使用lumberjack按大小滚动
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 日志配置
type Config struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | /path/to/file
	EnableCaller bool
	MaxSizeMB    int
	MaxBackups   int
	MaxAgeDays   int
}

// New 创建zap Logger
func New(cfg Config, service string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(defaultString(cfg.Level, "info")))
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "console":
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	case "", "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, fmt.Errorf("无效的日志格式: %s", cfg.Format)
	}

	core := zapcore.NewCore(encoder, writer(cfg), level)

	opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}

	log := zap.New(core, opts...)
	if service != "" {
		log = log.With(zap.String("service", service))
	}
	return log, nil
}

// NewNop 测试用的空Logger
func NewNop() *zap.Logger {
	return zap.NewNop()
}

func writer(cfg Config) zapcore.WriteSyncer {
	switch cfg.Output {
	case "", "stdout":
		return zapcore.Lock(os.Stdout)
	case "stderr":
		return zapcore.Lock(os.Stderr)
	}

	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Output,
		MaxSize:    defaultInt(cfg.MaxSizeMB, 50),
		MaxBackups: defaultInt(cfg.MaxBackups, 3),
		MaxAge:     defaultInt(cfg.MaxAgeDays, 7),
	})
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
