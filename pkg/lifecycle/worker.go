package lifecycle

import (
	"context"
	"fmt"
)

// RunFunc 任务主体，ctx 结束时应尽快返回
type RunFunc func(ctx context.Context) error

// StopFunc 退出时调用，用于关闭 RunFunc 中阻塞的资源，例如 http.Server.Shutdown
type StopFunc func(ctx context.Context) error

// Worker 由 Manager 托管的一个长期任务
type Worker struct {
	name           string
	run            RunFunc
	stop           StopFunc
	shutdownOnExit bool
	err            error
}

// WorkerOption 任务配置选项
type WorkerOption func(*Worker)

// NewWorker 创建任务
func NewWorker(name string, run RunFunc, opts ...WorkerOption) *Worker {
	w := &Worker{name: name, run: run}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WithStopFunc 设置停止函数
func WithStopFunc(stop StopFunc) WorkerOption {
	return func(w *Worker) {
		w.stop = stop
	}
}

// WithShutdownOnExit 任务正常返回后整个管理器随之退出
func WithShutdownOnExit() WorkerOption {
	return func(w *Worker) {
		w.shutdownOnExit = true
	}
}

// Name 返回任务名称
func (w *Worker) Name() string {
	return w.name
}

// Run 执行任务，panic 转为错误返回
func (w *Worker) Run(ctx context.Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("lifecycle: worker %s panicked: %v", w.name, p)
		}
		w.err = err
	}()
	return w.run(ctx)
}

// Stop 调用停止函数
func (w *Worker) Stop(ctx context.Context) error {
	if w.stop == nil {
		return nil
	}
	return w.stop(ctx)
}

// Err 返回任务最近一次运行的错误
func (w *Worker) Err() error {
	return w.err
}
