package reactor

import (
	"errors"
	"fmt"
)

var (
	// ErrReactorStopped worker 已退出，事件无法投递
	ErrReactorStopped = errors.New("reactor: worker stopped")

	// ErrSenderClosed 投递端已关闭
	ErrSenderClosed = errors.New("reactor: sender closed")

	// ErrAlreadyJoined Join 只能成功调用一次
	ErrAlreadyJoined = errors.New("reactor: already joined")

	// ErrWorkerPanicked worker 在状态机代码中 panic
	ErrWorkerPanicked = errors.New("reactor: worker panicked")
)

// SendError 投递失败，携带未送达的事件
type SendError[E any] struct {
	Event E
	Err   error
}

func (e *SendError[E]) Error() string {
	return fmt.Sprintf("%v: event %v not delivered", e.Err, e.Event)
}

func (e *SendError[E]) Unwrap() error {
	return e.Err
}

// PanicError worker 异常终止，由 Join 返回
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v: %v", ErrWorkerPanicked, e.Value)
}

func (e *PanicError) Unwrap() error {
	return ErrWorkerPanicked
}
