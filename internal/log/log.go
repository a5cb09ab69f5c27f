package log

import (
	"io"
	"log/slog"
	"strings"
)

// New 返回写入到 w 的 slog.Logger；level 取 debug|info|warn|error，无法识别时用 info。
// 注意：stdout=数据（JSend 文档），日志应始终写 stderr（由调用方传入）。
func New(w io.Writer, level string) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(h)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard 用于测试和未配置日志的调用方。
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
