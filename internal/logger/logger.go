// Package logger 建立應用程式使用的 zerolog logger。
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"qna_web/pkg/config"
)

// New 依設定建立 logger，Pretty 時輸出易讀的 console 格式
func New(cfg config.LogConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

func NewWithWriter(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "qna_web").Logger()
}
