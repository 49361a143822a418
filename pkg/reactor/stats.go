package reactor

import (
	"sync/atomic"
	"time"
)

// Status worker 的运行状态
type Status int32

const (
	StatusRunning    Status = iota // 正在处理事件
	StatusTerminated               // 状态机主动终止
	StatusDrained                  // 投递端全部关闭且队列为空
	StatusPanicked                 // 状态机代码 panic
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusTerminated:
		return "terminated"
	case StatusDrained:
		return "drained"
	case StatusPanicked:
		return "panicked"
	default:
		return "unknown"
	}
}

// StatsSnapshot 统计快照
type StatsSnapshot struct {
	Sent      int64  // 成功投递的事件数
	Rejected  int64  // 被拒绝的事件数
	Processed int64  // 已处理的事件数
	Responses int64  // 产生输出的转换数
	Discarded int64  // worker 退出时丢弃的排队事件数
	QueueLen  int    // 当前排队数
	Status    Status // worker 状态
}

// observer 汇总计数与可选的 Prometheus 指标，投递端与 worker 共享
type observer struct {
	status    atomic.Int32
	sent      atomic.Int64
	rejected  atomic.Int64
	processed atomic.Int64
	responses atomic.Int64
	discarded atomic.Int64
	metrics   *boundMetrics
}

func newObserver(metrics *boundMetrics) *observer {
	o := &observer{metrics: metrics}
	if metrics != nil {
		metrics.m.ActiveWorkers.Inc()
	}
	return o
}

func (o *observer) accepted() {
	o.sent.Add(1)
	if o.metrics != nil {
		o.metrics.sent.Inc()
	}
}

// queueDepth 由 mailbox 在持锁时调用，worker 退出后不会再被覆盖
func (o *observer) queueDepth(n int) {
	if o.metrics != nil {
		o.metrics.depth.Set(float64(n))
	}
}

func (o *observer) rejectedEvent() {
	o.rejected.Add(1)
	if o.metrics != nil {
		o.metrics.rejected.Inc()
	}
}

func (o *observer) transition(d time.Duration, responded bool) {
	o.processed.Add(1)
	if responded {
		o.responses.Add(1)
	}
	if o.metrics != nil {
		o.metrics.observeTransition(d, responded)
	}
}

func (o *observer) finished(status Status, discarded int) {
	o.discarded.Add(int64(discarded))
	o.status.Store(int32(status))
	if o.metrics != nil {
		o.metrics.discarded.Add(float64(discarded))
		o.metrics.m.Exits.WithLabelValues(o.metrics.name, status.String()).Inc()
		o.metrics.m.ActiveWorkers.Dec()
	}
}

func (o *observer) snapshot(queueLen int) StatsSnapshot {
	return StatsSnapshot{
		Sent:      o.sent.Load(),
		Rejected:  o.rejected.Load(),
		Processed: o.processed.Load(),
		Responses: o.responses.Load(),
		Discarded: o.discarded.Load(),
		QueueLen:  queueLen,
		Status:    Status(o.status.Load()),
	}
}
