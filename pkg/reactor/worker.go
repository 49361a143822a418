package reactor

import (
	"runtime/debug"
	"time"

	"github.com/junbin-yang/go-fsmreactor/pkg/logger"
)

// worker 持有消费端；不引用任何 Sender，Reactor 句柄被丢弃后其投递端仍可被回收
type worker[E comparable, S comparable, R any] struct {
	log  *logger.Logger
	mb   *mailbox[E]
	obs  *observer
	done chan struct{}

	// 在关闭 done 之前写入
	resp    R
	hasResp bool
	err     error
}

// run 是 worker 主循环，状态与状态机实例只在这里访问
func (w *worker[E, S, R]) run(factory func() FSM[E, S, R]) {
	status := StatusDrained
	defer func() {
		if p := recover(); p != nil {
			status = StatusPanicked
			pe := &PanicError{Value: p, Stack: debug.Stack()}
			w.err = pe
			w.log.Error("worker panicked", logger.Any("panic", p), logger.ByteString("stack", pe.Stack))
		}

		discarded := w.mb.stop()
		if discarded > 0 {
			w.log.Debug("discarded queued events", logger.Int("count", discarded))
		}
		w.obs.finished(status, discarded)
		close(w.done)
	}()

	machine := factory()
	state := initialState(machine)
	w.log.Info("worker started", logger.Any("state", state))

	for {
		ev, _, ok := w.mb.pop()
		if !ok {
			w.log.Info("event supply exhausted, worker exiting", logger.Any("state", state))
			return
		}

		start := time.Now()
		t := machine.Transit(state, ev)
		if t.HasResponse {
			var next *S
			if !t.Terminate {
				n := t.Next
				next = &n
			}
			machine.Respond(state, next, t.Response)
		}
		w.obs.transition(time.Since(start), t.HasResponse)

		if w.log.Enabled(logger.DebugLevel) {
			to := logger.Any("to", t.Next)
			if t.Terminate {
				to = logger.String("to", "<terminated>")
			}
			w.log.Debug("transition",
				logger.Any("from", state),
				logger.Any("event", ev),
				to,
				logger.Bool("terminate", t.Terminate),
				logger.Bool("response", t.HasResponse),
			)
		}

		if t.Terminate {
			status = StatusTerminated
			if t.HasResponse {
				w.resp, w.hasResp = t.Response, true
			}
			w.log.Info("machine terminated", logger.Any("state", state), logger.Bool("response", t.HasResponse))
			return
		}
		state = t.Next
	}
}
