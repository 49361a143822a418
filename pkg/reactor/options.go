package reactor

import (
	"github.com/junbin-yang/go-fsmreactor/pkg/config"
	"github.com/junbin-yang/go-fsmreactor/pkg/logger"
)

// Option Reactor 配置选项
type Option func(*options)

type options struct {
	name          string
	logger        *logger.Logger
	metrics       *Metrics
	queueCapacity int
}

func newOptions(opts []Option) options {
	o := options{queueCapacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.NewNop()
	}
	return o
}

// WithName 设置 Reactor 名称，用于日志与指标标签
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger 设置日志器，默认不输出
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics 启用 Prometheus 指标
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithQueueCapacity 设置队列初始容量，队列本身无界
func WithQueueCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueCapacity = n
		}
	}
}

// WithConfig 从配置段应用名称与队列容量，空值保持原设置
func WithConfig(cfg config.ReactorConfig) Option {
	return func(o *options) {
		if cfg.Name != "" {
			o.name = cfg.Name
		}
		if cfg.QueueCapacity > 0 {
			o.queueCapacity = cfg.QueueCapacity
		}
	}
}
