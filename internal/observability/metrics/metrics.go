package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters/histograms for the assistant, gateway and reminder flows.
type Metrics struct {
	turnsTotal     *prometheus.CounterVec
	gatewayTotal   *prometheus.CounterVec
	gatewayLatency *prometheus.HistogramVec
	remindersTotal *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medilingo",
			Subsystem: "assistant",
			Name:      "turns_total",
			Help:      "Chatbot turns by classified condition and response language",
		}, []string{"condition", "language"}),
		gatewayTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medilingo",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "External service calls by outcome",
		}, []string{"service", "outcome"}),
		gatewayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medilingo",
			Subsystem: "gateway",
			Name:      "latency_seconds",
			Help:      "Latency of external service calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service"}),
		remindersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medilingo",
			Subsystem: "reminders",
			Name:      "sent_total",
			Help:      "Reminder sends by kind and status",
		}, []string{"kind", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.gatewayTotal, m.gatewayLatency, m.remindersTotal)
	return m
}

func (m *Metrics) ObserveTurn(condition, language string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(condition, language).Inc()
}

func (m *Metrics) ObserveGatewayCall(service, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.gatewayTotal.WithLabelValues(service, outcome).Inc()
	m.gatewayLatency.WithLabelValues(service).Observe(seconds)
}

// ObserveFallback counts a local fallback taken after a failed call.
func (m *Metrics) ObserveFallback(service string) {
	if m == nil {
		return
	}
	m.gatewayTotal.WithLabelValues(service, "fallback").Inc()
}

func (m *Metrics) ObserveReminder(kind string, sent bool) {
	if m == nil {
		return
	}
	status := "failed"
	if sent {
		status = "sent"
	}
	m.remindersTotal.WithLabelValues(kind, status).Inc()
}
