package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Waiting list promoter
	WaitingListPromoted   prometheus.Counter
	WaitingListRunErrors  prometheus.Counter
	PromoterRunDuration   prometheus.Histogram
	RemindersSent         prometheus.Counter
	RetentionRowsDeleted  *prometheus.CounterVec
	NotificationsSent     *prometheus.CounterVec
	NotificationsFailed   *prometheus.CounterVec

	// Messaging gateway
	GatewayConnections prometheus.Gauge
	GatewayEvents      *prometheus.CounterVec
}

// New creates and registers all application metrics
func New(namespace string) *Metrics {
	return &Metrics{
		WaitingListPromoted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waiting_list_promoted_total",
			Help:      "Total number of waiting list entries promoted",
		}),
		WaitingListRunErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waiting_list_run_errors_total",
			Help:      "Total number of failed promoter runs",
		}),
		PromoterRunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "promoter_run_duration_seconds",
			Help:      "Time spent on a single promoter run",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		RemindersSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_reminders_sent_total",
			Help:      "Total number of appointment reminders sent",
		}),
		RetentionRowsDeleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retention_rows_deleted_total",
			Help:      "Rows deleted by retention jobs",
		}, []string{"entity"}),
		NotificationsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "Total number of notifications sent",
		}, []string{"channel"}),
		NotificationsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_failed_total",
			Help:      "Total number of notifications that failed to send",
		}, []string{"channel"}),
		GatewayConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gateway_connections",
			Help:      "Current number of websocket connections",
		}),
		GatewayEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_events_total",
			Help:      "Total number of gateway events relayed",
		}, []string{"event"}),
	}
}
