package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/junbin-yang/go-fsmreactor/pkg/logger"
)

// Manager 托管一组长期任务：统一启动，收到信号、任务出错或根上下文结束时
// 按注册的逆序停止，并在超时内等待全部退出。
type Manager struct {
	mu      sync.Mutex
	log     *logger.Logger
	workers []*Worker
	cancels map[string]context.CancelFunc
	hooks   hooks
	signals []os.Signal
	timeout time.Duration
	rootCtx context.Context
	ctx     context.Context // Run 创建，所有任务的父上下文
	cancel  context.CancelFunc
	started bool // Run 已调用
	running bool // 任务已启动，之后注册的任务立即运行

	wg    sync.WaitGroup
	errCh chan error

	stopOnce sync.Once
	stopErr  error
}

// NewManager 创建生命周期管理器，默认监听 SIGINT/SIGTERM，退出超时 30s
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		log:     logger.NewNop(),
		cancels: make(map[string]context.CancelFunc),
		signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		timeout: 30 * time.Second,
		rootCtx: context.Background(),
		errCh:   make(chan error, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.Named("lifecycle")
	return m
}

// AddWorker 注册任务；管理器已在运行时立即启动
func (m *Manager) AddWorker(name string, run RunFunc, opts ...WorkerOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lookup(name) >= 0 {
		return ErrWorkerExists
	}
	w := NewWorker(name, run, opts...)
	m.workers = append(m.workers, w)
	if m.running {
		m.start(w)
	}
	return nil
}

// StopWorker 取消指定任务并调用其停止函数
func (m *Manager) StopWorker(name string) error {
	m.mu.Lock()
	i := m.lookup(name)
	if i < 0 {
		m.mu.Unlock()
		return ErrWorkerNotFound
	}
	w := m.workers[i]
	cancel := m.cancels[name]
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	ctx, done := context.WithTimeout(context.Background(), m.timeout)
	defer done()
	return w.Stop(ctx)
}

// Run 启动全部任务并阻塞到管理器退出。
//
// 任务返回非取消错误时，先完成退出流程再返回该错误。
func (m *Manager) Run() error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(m.rootCtx)
	m.ctx, m.cancel = ctx, cancel
	m.started = true
	startup := m.hooks.startup
	m.mu.Unlock()

	if err := callAll(ctx, startup); err != nil {
		cancel()
		return err
	}

	var sigCh chan os.Signal
	if len(m.signals) > 0 {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, m.signals...)
		defer signal.Stop(sigCh)
	}

	m.mu.Lock()
	m.running = true
	for _, w := range m.workers {
		m.start(w)
	}
	n := len(m.workers)
	m.mu.Unlock()
	m.log.Info("started", logger.Int("workers", n))

	var workerErr error
	select {
	case sig := <-sigCh:
		m.log.Info("signal received", logger.Stringer("signal", sig))
	case workerErr = <-m.errCh:
		m.log.Error("worker failed", logger.Err(workerErr))
	case <-ctx.Done():
	}

	err := m.Shutdown()
	if workerErr != nil {
		return workerErr
	}
	return err
}

// Shutdown 触发退出并等待完成，可重复调用，结果相同
func (m *Manager) Shutdown() error {
	m.stopOnce.Do(func() {
		m.mu.Lock()
		if m.cancel != nil {
			m.cancel()
		}
		m.mu.Unlock()
		m.stopErr = m.shutdown()
	})
	return m.stopErr
}

/* ------------------------------ 内部方法 ------------------------------ */

// start 需持有 m.mu，且 Run 已创建 m.ctx
func (m *Manager) start(w *Worker) {
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancels[w.name] = cancel
	m.wg.Add(1)
	go m.runWorker(ctx, w)
}

func (m *Manager) runWorker(ctx context.Context, w *Worker) {
	defer m.wg.Done()

	m.log.Debug("worker started", logger.String("worker", w.name))
	err := w.Run(ctx)

	m.mu.Lock()
	if cancel, ok := m.cancels[w.name]; ok {
		cancel()
		delete(m.cancels, w.name)
	}
	if i := m.lookup(w.name); i >= 0 && m.workers[i] == w {
		m.workers = append(m.workers[:i], m.workers[i+1:]...)
	}
	exitHooks := m.hooks.workerExit
	rootCancel := m.cancel
	m.mu.Unlock()

	for _, fn := range exitHooks {
		fn(w.name, err)
	}

	switch {
	case err != nil && !errors.Is(err, context.Canceled):
		select {
		case m.errCh <- err:
		default:
		}
	case w.shutdownOnExit && rootCancel != nil:
		m.log.Info("worker finished, shutting down", logger.String("worker", w.name))
		rootCancel()
	default:
		m.log.Debug("worker exited", logger.String("worker", w.name), logger.Err(err))
	}
}

// shutdown 取消所有任务，按注册逆序调用停止函数，在超时内等待退出
func (m *Manager) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	m.mu.Lock()
	for _, c := range m.cancels {
		c()
	}
	workers := make([]*Worker, len(m.workers))
	copy(workers, m.workers)
	h := m.hooks
	m.mu.Unlock()

	for i := len(workers) - 1; i >= 0; i-- {
		if err := workers[i].Stop(ctx); err != nil {
			m.log.Warn("stop worker failed", logger.String("worker", workers[i].name), logger.Err(err))
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		m.log.Error("shutdown timeout", logger.Duration("timeout", m.timeout))
		_ = callAll(ctx, h.timeout)
		return ErrShutdownTimeout
	}

	m.log.Info("stopped")
	return callAll(ctx, h.shutdown)
}

// lookup 需持有 m.mu
func (m *Manager) lookup(name string) int {
	for i, w := range m.workers {
		if w.name == name {
			return i
		}
	}
	return -1
}
