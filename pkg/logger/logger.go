package logger

import (
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey gin.Context中保存请求ID的键
const RequestIDKey = "request_id"

var global atomic.Pointer[zap.Logger]

func init() {
	global.Store(zap.NewNop())
}

// New 创建zap日志器
// format: json（生产环境）或 console（本地开发，带颜色）
// level: debug/info/warn/error，无法识别时使用info
func New(level, format string) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.EqualFold(format, "console") {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// ReplaceGlobals 设置进程级日志器，返回恢复函数
func ReplaceGlobals(l *zap.Logger) func() {
	prev := global.Swap(l)
	undo := zap.ReplaceGlobals(l)
	return func() {
		global.Store(prev)
		undo()
	}
}

// L 返回进程级日志器（未初始化时为Nop，测试中无需配置）
func L() *zap.Logger {
	return global.Load()
}
