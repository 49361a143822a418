package config

import "time"

// Config 反应器应用的完整配置
type Config struct {
	Reactor ReactorConfig `yaml:"reactor" json:"reactor"`
	Log     LogConfig     `yaml:"log" json:"log"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// ReactorConfig 反应器运行参数
type ReactorConfig struct {
	Name          string `yaml:"name" json:"name" env:"FSMREACTOR_NAME"`
	QueueCapacity int    `yaml:"queue_capacity" json:"queue_capacity" env:"FSMREACTOR_QUEUE_CAPACITY"`
}

// LogConfig 日志输出配置
type LogConfig struct {
	Level       string        `yaml:"level" json:"level" env:"FSMREACTOR_LOG_LEVEL"`
	File        string        `yaml:"file" json:"file" env:"FSMREACTOR_LOG_FILE"`
	MaxSizeMB   int           `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups  int           `yaml:"max_backups" json:"max_backups"`
	MaxAgeDays  int           `yaml:"max_age_days" json:"max_age_days"`
	RotateDaily bool          `yaml:"rotate_daily" json:"rotate_daily" env:"FSMREACTOR_LOG_ROTATE_DAILY"`
	RotateEvery time.Duration `yaml:"rotate_every" json:"rotate_every"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled" env:"FSMREACTOR_METRICS_ENABLED"`
	Namespace string `yaml:"namespace" json:"namespace"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Reactor: ReactorConfig{
			Name:          "reactor",
			QueueCapacity: 64,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Metrics: MetricsConfig{
			Namespace: "fsmreactor",
		},
	}
}
