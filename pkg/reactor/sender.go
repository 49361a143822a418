package reactor

import (
	"runtime"
	"sync/atomic"
)

// Sender 是 Reactor 的事件投递端。
//
// 同一个 Sender 可被多个协程并发 Send；需要独立生命周期时用 Clone 派生新的投递端。
// 所有投递端都 Close 后，worker 处理完剩余事件即退出。未 Close 就被回收的
// Sender 会由运行时清理函数释放，因此只能通过指针使用，不要按值复制。
type Sender[E any] struct {
	noCopy noCopy
	ref    *senderRef[E]
}

// noCopy 让 go vet 的 copylocks 检查报告按值复制
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// senderRef 持有投递端状态，清理函数只引用它而不引用 Sender 本身
type senderRef[E any] struct {
	mb     *mailbox[E]
	obs    *observer
	closed atomic.Bool
}

func newSender[E any](mb *mailbox[E], obs *observer) *Sender[E] {
	ref := &senderRef[E]{mb: mb, obs: obs}
	s := &Sender[E]{ref: ref}
	if !mb.acquire() {
		ref.closed.Store(true)
		return s
	}
	runtime.AddCleanup(s, func(r *senderRef[E]) { r.release() }, ref)
	return s
}

func (r *senderRef[E]) release() {
	if r.closed.CompareAndSwap(false, true) {
		r.mb.release()
	}
}

// Send 异步投递事件，不等待处理。
// 失败时返回 *SendError，其中携带原事件；worker 已退出时匹配 ErrReactorStopped，
// 投递端已关闭时匹配 ErrSenderClosed。
func (s *Sender[E]) Send(ev E) error {
	if s.ref.closed.Load() {
		s.ref.obs.rejectedEvent()
		return &SendError[E]{Event: ev, Err: ErrSenderClosed}
	}

	_, err := s.ref.mb.push(ev)
	if err != nil {
		s.ref.obs.rejectedEvent()
		err = &SendError[E]{Event: ev, Err: err}
	} else {
		s.ref.obs.accepted()
	}
	// 投递完成前 s 不能被清理函数释放
	runtime.KeepAlive(s)
	return err
}

// Clone 派生一个共享同一队列的新投递端；已关闭的 Sender 派生出的投递端同样是关闭的
func (s *Sender[E]) Clone() *Sender[E] {
	if s.ref.closed.Load() {
		ref := &senderRef[E]{mb: s.ref.mb, obs: s.ref.obs}
		ref.closed.Store(true)
		return &Sender[E]{ref: ref}
	}
	clone := newSender(s.ref.mb, s.ref.obs)
	runtime.KeepAlive(s)
	return clone
}

// Close 释放投递端，可重复调用
func (s *Sender[E]) Close() {
	s.ref.release()
}

// Closed 报告投递端是否已关闭
func (s *Sender[E]) Closed() bool {
	return s.ref.closed.Load()
}
