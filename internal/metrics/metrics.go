package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Duration of outbound requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"component", "operation", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Outbound requests by component and status",
	}, []string{"component", "operation", "status"})

	LLMTokensTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_tokens_total",
		Help: "Tokens consumed by the LLM backend",
	}, []string{"model", "type"})

	QueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "offline_queue_depth",
		Help: "Valuation requests waiting for connectivity",
	})

	QueueDrains = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "offline_queue_drains_total",
		Help: "Drain attempts by outcome",
	}, []string{"outcome"})

	Online = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "connectivity_online",
		Help: "1 when the network is reachable",
	})

	BotSendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_send_errors_total",
		Help: "Failed bot sends",
	})
)

// MustRegister registers all collectors on registerer.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		NetworkRequestDuration,
		NetworkRequestTotal,
		LLMTokensTotal,
		QueueDepth,
		QueueDrains,
		Online,
		BotSendErrors,
	)
}

// ObserveNetworkRequest records duration and outcome of an outbound call.
func ObserveNetworkRequest(component, operation string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	NetworkRequestDuration.WithLabelValues(component, operation, status).Observe(time.Since(start).Seconds())
	NetworkRequestTotal.WithLabelValues(component, operation, status).Inc()
}

func ObserveTokens(model string, prompt, completion int) {
	if model == "" {
		model = "unknown"
	}
	if prompt > 0 {
		LLMTokensTotal.WithLabelValues(model, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		LLMTokensTotal.WithLabelValues(model, "completion").Add(float64(completion))
	}
}

func SetOnline(online bool) {
	if online {
		Online.Set(1)
		return
	}
	Online.Set(0)
}
