package lifecycle

import "errors"

var (
	// ErrWorkerExists 同名任务已注册
	ErrWorkerExists = errors.New("lifecycle: worker already exists")

	// ErrWorkerNotFound 任务不存在或已退出
	ErrWorkerNotFound = errors.New("lifecycle: worker not found")

	// ErrShutdownTimeout 退出超时，仍有任务未结束
	ErrShutdownTimeout = errors.New("lifecycle: shutdown timeout")

	// ErrAlreadyRunning 管理器已在运行
	ErrAlreadyRunning = errors.New("lifecycle: manager already running")
)
