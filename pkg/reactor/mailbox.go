package reactor

import "sync"

const defaultQueueCapacity = 64

// mailbox 无界多生产者单消费者队列，容量不足时环形缓冲区翻倍
type mailbox[E any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	buffer   []E
	head     int
	tail     int
	size     int
	senders  int  // 存活的投递端数量
	closed   bool // 投递端已全部释放
	stopped  bool // 消费者已退出

	// depth 在持锁状态下接收队列长度，为空时不上报
	depth func(int)
}

func newMailbox[E any](capacity int) *mailbox[E] {
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	mb := &mailbox[E]{buffer: make([]E, capacity)}
	mb.notEmpty = sync.NewCond(&mb.mu)
	return mb
}

// push 入队，返回入队后的长度
func (mb *mailbox[E]) push(ev E) (int, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	if mb.stopped {
		return 0, ErrReactorStopped
	}
	if mb.size == len(mb.buffer) {
		mb.grow()
	}

	mb.buffer[mb.tail] = ev
	mb.tail = (mb.tail + 1) % len(mb.buffer)
	mb.size++
	mb.report()

	mb.notEmpty.Signal()
	return mb.size, nil
}

// pop 阻塞直到有事件；队列已空且没有投递端或已停止时返回 false
func (mb *mailbox[E]) pop() (ev E, remaining int, ok bool) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	for mb.size == 0 {
		if mb.closed || mb.stopped {
			return ev, 0, false
		}
		mb.notEmpty.Wait()
	}

	var zero E
	ev = mb.buffer[mb.head]
	mb.buffer[mb.head] = zero
	mb.head = (mb.head + 1) % len(mb.buffer)
	mb.size--
	mb.report()
	return ev, mb.size, true
}

// grow 仅在队列满时调用，此时 head == tail
func (mb *mailbox[E]) grow() {
	buf := make([]E, len(mb.buffer)*2)
	n := copy(buf, mb.buffer[mb.head:])
	copy(buf[n:], mb.buffer[:mb.head])
	mb.buffer = buf
	mb.head = 0
	mb.tail = mb.size
}

// acquire 登记一个投递端；所有投递端都已释放时通道不可重开
func (mb *mailbox[E]) acquire() bool {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if mb.closed {
		return false
	}
	mb.senders++
	return true
}

func (mb *mailbox[E]) release() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.senders--
	if mb.senders == 0 {
		mb.closed = true
		mb.notEmpty.Broadcast()
	}
}

// stop 标记消费者退出，丢弃未处理的事件并返回其数量
func (mb *mailbox[E]) stop() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	dropped := mb.size
	mb.stopped = true
	mb.buffer = nil
	mb.head, mb.tail, mb.size = 0, 0, 0
	mb.report()
	mb.notEmpty.Broadcast()
	return dropped
}

func (mb *mailbox[E]) report() {
	if mb.depth != nil {
		mb.depth(mb.size)
	}
}

func (mb *mailbox[E]) len() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.size
}
