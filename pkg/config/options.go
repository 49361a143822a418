package config

import "time"

// Option 配置管理器选项
type Option func(*options)

// WithAppName 设置应用名称（用于默认配置文件名）
func WithAppName(name string) Option {
	return func(o *options) {
		o.appName = name
	}
}

// WithForceFormat 强制指定配置格式（无视文件后缀）
func WithForceFormat(s Serializer) Option {
	return func(o *options) {
		o.forceFormat = s
	}
}

// WithDefaultPaths 设置默认配置文件查找路径
func WithDefaultPaths(paths ...string) Option {
	return func(o *options) {
		o.defaultPaths = paths
	}
}

// WithConfigWatch 启用配置文件监听
func WithConfigWatch(enable bool, debounce time.Duration) Option {
	return func(o *options) {
		o.enableWatch = enable
		o.debounce = debounce
		if debounce <= 0 {
			o.debounce = 500 * time.Millisecond
		}
	}
}

// WithErrorHandler 设置后台重载失败时的回调
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}
