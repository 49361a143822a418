package lifecycle

import (
	"context"
	"os"
	"time"

	"github.com/junbin-yang/go-fsmreactor/pkg/logger"
)

// Option 管理器配置选项
type Option func(*Manager)

// WithSignals 设置触发退出的信号，不传参数时不监听信号
func WithSignals(signals ...os.Signal) Option {
	return func(m *Manager) {
		m.signals = signals
	}
}

// WithShutdownTimeout 设置退出超时时间
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		if timeout > 0 {
			m.timeout = timeout
		}
	}
}

// WithContext 设置根上下文，根上下文结束时管理器退出
func WithContext(ctx context.Context) Option {
	return func(m *Manager) {
		m.rootCtx = ctx
	}
}

// WithLogger 设置日志
func WithLogger(l *logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}
