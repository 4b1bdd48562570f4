package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(providerCallDuration, rateLimitDeniedTotal) }

var providerCallDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "provider_call_duration_seconds",
		Help:    "Wall-clock latency of upstream provider calls.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"tool", "outcome"},
)

var rateLimitDeniedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rate_limit_denied_total",
		Help: "Requests denied by the fixed-window rate limiter, by route.",
	},
	[]string{"route"},
)

func ObserveProviderCall(tool, outcome string, seconds float64) {
	providerCallDuration.WithLabelValues(norm(tool), norm(outcome)).Observe(seconds)
}

func IncRateLimitDenied(route string) {
	rateLimitDeniedTotal.WithLabelValues(norm(route)).Inc()
}
