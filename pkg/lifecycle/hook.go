package lifecycle

import "context"

// HookFunc 管理器级钩子
type HookFunc func(ctx context.Context) error

// WorkerHookFunc 任务退出钩子，err 为任务返回值
type WorkerHookFunc func(name string, err error)

type hooks struct {
	startup    []HookFunc
	workerExit []WorkerHookFunc
	shutdown   []HookFunc
	timeout    []HookFunc
}

// callAll 依次调用，遇到第一个错误即停止
func callAll(ctx context.Context, fns []HookFunc) error {
	for _, fn := range fns {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

// OnStartup 注册启动钩子，返回错误时 Run 不再启动任务
func (m *Manager) OnStartup(fn HookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks.startup = append(m.hooks.startup, fn)
}

// OnWorkerExit 注册任务退出钩子
func (m *Manager) OnWorkerExit(fn WorkerHookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks.workerExit = append(m.hooks.workerExit, fn)
}

// OnShutdown 注册退出钩子，在所有任务结束后调用
func (m *Manager) OnShutdown(fn HookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks.shutdown = append(m.hooks.shutdown, fn)
}

// OnTimeout 注册超时钩子
func (m *Manager) OnTimeout(fn HookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks.timeout = append(m.hooks.timeout, fn)
}
