package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conduct", Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"route"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "conduct", Name: "handler_errors_total", Help: "Handler errors",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "conduct", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})

	AdjustmentsApplied = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conduct", Name: "adjustments_applied_total", Help: "Score entries written",
	}, []string{"type"})
	ApplicationsSubmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conduct", Name: "applications_submitted_total", Help: "Applications accepted",
	}, []string{"type"})
	ApplicationsRateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "conduct", Name: "applications_rate_limited_total", Help: "Submissions rejected by the dedup window",
	})
	ApplicationsResolved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conduct", Name: "applications_resolved_total", Help: "Applications approved or rejected",
	}, []string{"action"})
	WeeklyResets = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "conduct", Name: "weekly_resets_total", Help: "Full ledger reset sweeps",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequests, HandlerErrors, DBPing,
		AdjustmentsApplied, ApplicationsSubmitted, ApplicationsRateLimited,
		ApplicationsResolved, WeeklyResets,
	)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
