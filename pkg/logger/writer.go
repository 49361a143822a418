package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/junbin-yang/go-fsmreactor/pkg/config"
)

// NewWriter 根据日志配置创建输出：
// 未配置文件时写 stderr；配置了按时间轮转时使用 rotatelogs；否则按大小轮转（lumberjack）。
func NewWriter(cfg config.LogConfig) (io.WriteCloser, error) {
	if cfg.File == "" {
		return nopCloser{os.Stderr}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("logger: create log dir: %w", err)
	}

	every := cfg.RotateEvery
	if every <= 0 && cfg.RotateDaily {
		every = 24 * time.Hour
	}
	if every > 0 {
		return newTimeRotateWriter(cfg, every)
	}

	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		LocalTime:  true,
	}, nil
}

func newTimeRotateWriter(cfg config.LogConfig, every time.Duration) (io.WriteCloser, error) {
	opts := []rotatelogs.Option{
		rotatelogs.WithLinkName(cfg.File),
		rotatelogs.WithRotationTime(every),
	}
	// rotatelogs 不允许同时设置 MaxAge 与 RotationCount
	switch {
	case cfg.MaxAgeDays > 0:
		opts = append(opts, rotatelogs.WithMaxAge(time.Duration(cfg.MaxAgeDays)*24*time.Hour))
	case cfg.MaxBackups > 0:
		opts = append(opts, rotatelogs.WithRotationCount(uint(cfg.MaxBackups)))
	}

	w, err := rotatelogs.New(cfg.File+".%Y%m%d%H%M", opts...)
	if err != nil {
		return nil, fmt.Errorf("logger: create rotate writer: %w", err)
	}
	return w, nil
}

// NewFromConfig 按配置创建日志器，返回的 Logger 需要 Close
func NewFromConfig(cfg config.LogConfig, opts ...Option) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(cfg)
	if err != nil {
		return nil, err
	}
	l := New(w, level, opts...)
	l.closer = w
	return l, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
