package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

var (
	// ErrConfigNotFound 默认路径下没有找到配置文件
	ErrConfigNotFound = errors.New("config: no config file found")

	// ErrNotLoaded 尚未成功加载配置文件
	ErrNotLoaded = errors.New("config: not loaded")

	// ErrAlreadyLoaded 配置文件已加载过
	ErrAlreadyLoaded = errors.New("config: already loaded")
)

type options struct {
	appName      string
	forceFormat  Serializer
	formats      []Serializer
	defaultPaths []string
	enableWatch  bool
	debounce     time.Duration
	onError      func(error)
}

// Manager 类型化的配置管理器
//
// 加载顺序：默认值 -> 配置文件 -> 环境变量。
type Manager[T any] struct {
	opts     options
	defaults T

	mu         sync.RWMutex
	current    *T
	path       string
	serializer Serializer
	loaded     bool
	callbacks  []func(old, new *T)

	watcher   *fsnotify.Watcher
	quit      chan struct{}
	closeOnce sync.Once
}

// NewManager 创建配置管理器，defaults 为空时使用 T 的零值
func NewManager[T any](defaults *T, opts ...Option) *Manager[T] {
	o := options{
		appName: "fsmreactor",
		formats: []Serializer{YAMLSerializer{}, JSONSerializer{}},
		defaultPaths: []string{
			"./{{.AppName}}",
			"{{.ExecDir}}/{{.AppName}}",
			"/etc/{{.AppName}}/{{.AppName}}",
		},
		debounce: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Manager[T]{
		opts: o,
		quit: make(chan struct{}),
	}
	if defaults != nil {
		m.defaults = *defaults
	}
	cur := m.defaults
	m.current = &cur
	return m
}

// Load 加载配置文件，path 为空时按默认路径查找
func (m *Manager[T]) Load(path string) error {
	m.mu.Lock()
	if m.loaded {
		m.mu.Unlock()
		return ErrAlreadyLoaded
	}

	var err error
	if path == "" {
		path, err = m.findDefaultPath()
		if err != nil {
			m.mu.Unlock()
			return err
		}
	} else if err = validatePath(path); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("config: invalid path: %w", err)
	}

	serializer := m.chooseSerializer(path)
	cfg, err := m.decode(path, serializer)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	m.path = path
	m.serializer = serializer
	m.current = cfg
	m.loaded = true
	m.mu.Unlock()

	if m.opts.enableWatch {
		return m.startWatch()
	}
	return nil
}

// Get 返回当前配置，未加载时返回默认值
func (m *Manager[T]) Get() *T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Path 返回正在使用的配置文件路径
func (m *Manager[T]) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// Reload 重新读取配置文件，成功后触发变更回调
func (m *Manager[T]) Reload() error {
	m.mu.RLock()
	path, serializer, loaded := m.path, m.serializer, m.loaded
	m.mu.RUnlock()
	if !loaded {
		return ErrNotLoaded
	}

	cfg, err := m.decode(path, serializer)
	if err != nil {
		return err
	}

	m.mu.Lock()
	old := m.current
	m.current = cfg
	callbacks := make([]func(old, new *T), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	// 回调在锁外执行
	for _, cb := range callbacks {
		cb(old, cfg)
	}
	return nil
}

// OnChange 注册配置变更回调
func (m *Manager[T]) OnChange(cb func(old, new *T)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

// Close 停止配置监听
func (m *Manager[T]) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.quit)
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.watcher != nil {
			err = m.watcher.Close()
			m.watcher = nil
		}
	})
	return err
}

/* ------------------------------ 内部方法 ------------------------------ */

func (m *Manager[T]) decode(path string, serializer Serializer) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := m.defaults
	if err := serializer.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s (%s): %w", path, serializer.Name(), err)
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("config: apply env overrides: %w", err)
	}
	return &cfg, nil
}

// chooseSerializer 强制格式 > 后缀识别 > YAML
func (m *Manager[T]) chooseSerializer(path string) Serializer {
	if m.opts.forceFormat != nil {
		return m.opts.forceFormat
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range m.opts.formats {
		for _, e := range format.FileExts() {
			if e == ext {
				return format
			}
		}
	}
	return YAMLSerializer{}
}

func (m *Manager[T]) findDefaultPath() (string, error) {
	execPath, _ := os.Executable()
	vars := map[string]string{
		"AppName": m.opts.appName,
		"ExecDir": filepath.Dir(execPath),
	}

	for _, tpl := range m.opts.defaultPaths {
		base := replacePathVars(tpl, vars)
		if validatePath(base) == nil {
			return base, nil
		}
		for _, format := range m.opts.formats {
			for _, ext := range format.FileExts() {
				if validatePath(base+ext) == nil {
					return base + ext, nil
				}
			}
		}
	}
	return "", ErrConfigNotFound
}

// startWatch 监听配置文件所在目录，编辑器常用重命名方式保存文件
func (m *Manager[T]) startWatch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}

	m.mu.Lock()
	path := m.path
	if err := w.Add(filepath.Dir(path)); err != nil {
		m.mu.Unlock()
		_ = w.Close()
		return fmt.Errorf("config: watch %s: %w", path, err)
	}
	m.watcher = w
	m.mu.Unlock()

	go m.watchLoop(w, filepath.Clean(path))
	return nil
}

func (m *Manager[T]) watchLoop(w *fsnotify.Watcher, path string) {
	debounce := time.NewTimer(m.opts.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce.Reset(m.opts.debounce)
			}

		case <-debounce.C:
			if err := m.Reload(); err != nil {
				m.reportError(err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			m.reportError(fmt.Errorf("config: watch: %w", err))

		case <-m.quit:
			return
		}
	}
}

func (m *Manager[T]) reportError(err error) {
	if m.opts.onError != nil {
		m.opts.onError(err)
	}
}

// replacePathVars 替换路径模板变量
func replacePathVars(tpl string, vars map[string]string) string {
	result := tpl
	for k, v := range vars {
		result = strings.ReplaceAll(result, "{{."+k+"}}", v)
	}
	return result
}

// validatePath 校验配置路径合法性
func validatePath(path string) error {
	if path == "" {
		return errors.New("path is empty")
	}

	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", path)
		}
		return fmt.Errorf("stat path failed: %w", err)
	}
	if fi.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	return nil
}
