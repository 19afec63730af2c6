package pool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus collectors describing pool activity.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	TasksSubmitted  prometheus.Counter
	TasksRejected   prometheus.Counter
	TasksCompleted  prometheus.Counter
	TasksFailed     prometheus.Counter
	TasksAbandoned  prometheus.Counter
	PanicsRecovered prometheus.Counter
	QueueDepth      prometheus.Gauge
	ActiveWorkers   prometheus.Gauge
	TaskDuration    prometheus.Histogram
}

// NewMetrics creates the pool collectors. They are not registered; call Register with the
// registry of your choice.
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		TasksSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_submitted_total",
			Help:      "Total number of tasks accepted by the pool",
		}),
		TasksRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_rejected_total",
			Help:      "Total number of submissions rejected because the pool was shut down",
		}),
		TasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_completed_total",
			Help:      "Total number of tasks that finished without error",
		}),
		TasksFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_failed_total",
			Help:      "Total number of tasks that returned an error or panicked",
		}),
		TasksAbandoned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_abandoned_total",
			Help:      "Total number of queued tasks dropped at shutdown without running",
		}),
		PanicsRecovered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "worker_panics_recovered_total",
			Help:      "Total number of panics caught by the worker loop outside task bodies",
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queue_depth",
			Help:      "Current number of tasks waiting for a worker",
		}),
		ActiveWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_workers",
			Help:      "Current number of workers executing a task",
		}),
		TaskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "task_duration_seconds",
			Help:      "Histogram of task execution time",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Register registers every collector with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.TasksSubmitted,
		m.TasksRejected,
		m.TasksCompleted,
		m.TasksFailed,
		m.TasksAbandoned,
		m.PanicsRecovered,
		m.QueueDepth,
		m.ActiveWorkers,
		m.TaskDuration,
	}
}

func (m *Metrics) submitted() {
	if m == nil {
		return
	}
	m.TasksSubmitted.Inc()
	m.QueueDepth.Inc()
}

func (m *Metrics) rejected() {
	if m == nil {
		return
	}
	m.TasksRejected.Inc()
}

func (m *Metrics) started() {
	if m == nil {
		return
	}
	m.QueueDepth.Dec()
	m.ActiveWorkers.Inc()
}

func (m *Metrics) finished(elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.ActiveWorkers.Dec()
	m.TaskDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.TasksFailed.Inc()
		return
	}
	m.TasksCompleted.Inc()
}

func (m *Metrics) abandoned(n int) {
	if m == nil || n == 0 {
		return
	}
	m.TasksAbandoned.Add(float64(n))
	m.QueueDepth.Sub(float64(n))
}

func (m *Metrics) panicRecovered() {
	if m == nil {
		return
	}
	m.PanicsRecovered.Inc()
}
