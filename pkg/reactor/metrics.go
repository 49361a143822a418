package reactor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics Reactor 的 Prometheus 指标，按 reactor 名称区分，可被多个 Reactor 共享
type Metrics struct {
	EventsSent         *prometheus.CounterVec
	EventsRejected     *prometheus.CounterVec
	EventsProcessed    *prometheus.CounterVec
	EventsDiscarded    *prometheus.CounterVec
	Responses          *prometheus.CounterVec
	Exits              *prometheus.CounterVec
	QueueDepth         *prometheus.GaugeVec
	TransitionDuration *prometheus.HistogramVec
	ActiveWorkers      prometheus.Gauge
}

// NewMetrics 在 registerer 上注册指标，registerer 为空时使用默认注册表
func NewMetrics(registerer prometheus.Registerer, namespace string) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "fsmreactor"
	}
	factory := promauto.With(registerer)

	return &Metrics{
		EventsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_sent_total",
			Help:      "Events accepted into the reactor mailbox",
		}, []string{"reactor"}),
		EventsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_rejected_total",
			Help:      "Events refused because the worker stopped or the sender was closed",
		}, []string{"reactor"}),
		EventsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_processed_total",
			Help:      "Events passed to the transition function",
		}, []string{"reactor"}),
		EventsDiscarded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_discarded_total",
			Help:      "Queued events dropped when the worker exited",
		}, []string{"reactor"}),
		Responses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Transitions that produced a response",
		}, []string{"reactor"}),
		Exits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_exits_total",
			Help:      "Worker exits by outcome",
		}, []string{"reactor", "status"}),
		QueueDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Events waiting in the reactor mailbox",
		}, []string{"reactor"}),
		TransitionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transition_duration_seconds",
			Help:      "Time spent in Transit and Respond per event",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10),
		}, []string{"reactor"}),
		ActiveWorkers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_workers",
			Help:      "Reactor workers currently running",
		}),
	}
}

// boundMetrics 绑定到单个 reactor 名称的指标
type boundMetrics struct {
	m         *Metrics
	name      string
	sent      prometheus.Counter
	rejected  prometheus.Counter
	processed prometheus.Counter
	discarded prometheus.Counter
	responses prometheus.Counter
	depth     prometheus.Gauge
	duration  prometheus.Observer
}

func (m *Metrics) bind(name string) *boundMetrics {
	if m == nil {
		return nil
	}
	return &boundMetrics{
		m:         m,
		name:      name,
		sent:      m.EventsSent.WithLabelValues(name),
		rejected:  m.EventsRejected.WithLabelValues(name),
		processed: m.EventsProcessed.WithLabelValues(name),
		discarded: m.EventsDiscarded.WithLabelValues(name),
		responses: m.Responses.WithLabelValues(name),
		depth:     m.QueueDepth.WithLabelValues(name),
		duration:  m.TransitionDuration.WithLabelValues(name),
	}
}

func (b *boundMetrics) observeTransition(d time.Duration, responded bool) {
	b.processed.Inc()
	b.duration.Observe(d.Seconds())
	if responded {
		b.responses.Inc()
	}
}
