package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobsProcessedTotal, jobFailuresTotal) }

var jobsProcessedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "generation_jobs_processed_total",
		Help: "Total number of generation jobs processed, labeled by type and status.",
	},
	[]string{"type", "status"},
)

var jobFailuresTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "generation_job_failures_total",
		Help: "Terminal job failures labeled by error code.",
	},
	[]string{"code"},
)

func IncJobProcessed(jobType, status string) {
	jobsProcessedTotal.WithLabelValues(norm(jobType), norm(status)).Inc()
}

func IncJobFailure(code string) {
	jobFailuresTotal.WithLabelValues(code).Inc()
}
