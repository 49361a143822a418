package reactor

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/junbin-yang/go-fsmreactor/pkg/logger"
)

// Reactor 持有一个状态机的运行生命周期。
//
// New 启动 worker 后立即返回；Send 与 Sender 在任意协程投递事件；
// Join 等待 worker 退出并取回最终输出。
type Reactor[E comparable, S comparable, R any] struct {
	id     string
	name   string
	w      *worker[E, S, R]
	sender *Sender[E]
	joined atomic.Bool
}

// New 创建 Reactor 并启动 worker。factory 在 worker 协程上调用一次，
// 初始状态为 S 的零值或 Initializer 给出的值。
func New[E comparable, S comparable, R any](factory func() FSM[E, S, R], opts ...Option) *Reactor[E, S, R] {
	if factory == nil {
		panic("reactor: nil factory")
	}
	o := newOptions(opts)

	id := uuid.NewString()
	name := o.name
	if name == "" {
		name = "reactor-" + id[:8]
	}

	mb := newMailbox[E](o.queueCapacity)
	obs := newObserver(o.metrics.bind(name))
	mb.depth = obs.queueDepth

	w := &worker[E, S, R]{
		log:  o.logger.Named("reactor").With(logger.String("reactor", name), logger.String("id", id)),
		mb:   mb,
		obs:  obs,
		done: make(chan struct{}),
	}
	r := &Reactor[E, S, R]{
		id:     id,
		name:   name,
		w:      w,
		sender: newSender(w.mb, w.obs),
	}

	go w.run(factory)
	return r
}

// ID 返回 Reactor 的唯一标识
func (r *Reactor[E, S, R]) ID() string { return r.id }

// Name 返回 Reactor 名称
func (r *Reactor[E, S, R]) Name() string { return r.name }

// Send 通过 Reactor 自身的投递端发送事件，语义同 Sender.Send
func (r *Reactor[E, S, R]) Send(ev E) error {
	return r.sender.Send(ev)
}

// Sender 返回一个新的投递端，调用方用完后应 Close
func (r *Reactor[E, S, R]) Sender() *Sender[E] {
	return r.sender.Clone()
}

// Close 释放 Reactor 自身的投递端，不等待 worker
func (r *Reactor[E, S, R]) Close() {
	r.sender.Close()
}

// Done 在 worker 退出后关闭
func (r *Reactor[E, S, R]) Done() <-chan struct{} {
	return r.w.done
}

// Status 返回 worker 当前状态
func (r *Reactor[E, S, R]) Status() Status {
	return Status(r.w.obs.status.Load())
}

// Stats 返回统计快照
func (r *Reactor[E, S, R]) Stats() StatsSnapshot {
	return r.w.obs.snapshot(r.w.mb.len())
}

// Join 释放 Reactor 自身的投递端并阻塞到 worker 退出。
//
// 返回状态机终止时的输出以及是否存在输出；因投递端全部关闭而退出时没有输出。
// worker panic 时返回 *PanicError。Join 只能成功一次，之后返回 ErrAlreadyJoined。
func (r *Reactor[E, S, R]) Join() (R, bool, error) {
	if !r.joined.CompareAndSwap(false, true) {
		var zero R
		return zero, false, ErrAlreadyJoined
	}
	r.sender.Close()
	<-r.w.done
	return r.w.resp, r.w.hasResp, r.w.err
}

// JoinContext 同 Join，ctx 结束时放弃等待并返回 ctx.Err()，此时 Join 仍可再次调用。
// 无论是否放弃，Reactor 自身的投递端都会被释放。
func (r *Reactor[E, S, R]) JoinContext(ctx context.Context) (R, bool, error) {
	var zero R
	if r.joined.Load() {
		return zero, false, ErrAlreadyJoined
	}
	r.sender.Close()

	select {
	case <-r.w.done:
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}

	if !r.joined.CompareAndSwap(false, true) {
		return zero, false, ErrAlreadyJoined
	}
	return r.w.resp, r.w.hasResp, r.w.err
}
