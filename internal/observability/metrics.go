package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eduforums_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// AssistRequests counts calls to the AI-assist gateway by operation.
	AssistRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eduforums_assist_requests_total",
		Help: "Total number of AI-assist gateway calls by operation",
	}, []string{"operation"})

	// AssistFailures counts failed AI-assist gateway calls by operation.
	AssistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eduforums_assist_failures_total",
		Help: "Total number of failed AI-assist gateway calls by operation",
	}, []string{"operation"})

	// AssistLatency records AI-assist gateway call latency by operation.
	AssistLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eduforums_assist_latency_seconds",
		Help:    "AI-assist gateway call latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// SessionsEstablished counts sessions created by flow (signup or login).
	SessionsEstablished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eduforums_sessions_established_total",
		Help: "Total number of sessions established by flow",
	}, []string{"flow"})
)
