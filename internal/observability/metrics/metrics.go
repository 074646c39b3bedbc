package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for webhook orchestration.
type ConversationMetrics struct {
	inboundTotal    *prometheus.CounterVec
	outcomeTotal    *prometheus.CounterVec
	leadsTotal      prometheus.Counter
	deliveryFailed  prometheus.Counter
	completionSecs  prometheus.Histogram
}

// NewConversationMetrics registers the conversation metric set.
func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "conversation",
			Name:      "inbound_events_total",
			Help:      "Total inbound webhook events by kind",
		}, []string{"kind"}),
		outcomeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "conversation",
			Name:      "outcomes_total",
			Help:      "Terminal orchestration outcomes",
		}, []string{"outcome"}),
		leadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "conversation",
			Name:      "leads_captured_total",
			Help:      "Completed quote requests persisted",
		}),
		deliveryFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "conversation",
			Name:      "delivery_failures_total",
			Help:      "Outbound replies that could not be delivered",
		}),
		completionSecs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "concierge",
			Subsystem: "conversation",
			Name:      "completion_seconds",
			Help:      "Latency of AI completion calls",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.outcomeTotal, m.leadsTotal, m.deliveryFailed, m.completionSecs)
	return m
}

func (m *ConversationMetrics) ObserveInbound(kind string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(kind).Inc()
}

func (m *ConversationMetrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.outcomeTotal.WithLabelValues(outcome).Inc()
}

func (m *ConversationMetrics) ObserveLeadCaptured() {
	if m == nil {
		return
	}
	m.leadsTotal.Inc()
}

func (m *ConversationMetrics) ObserveDeliveryFailure() {
	if m == nil {
		return
	}
	m.deliveryFailed.Inc()
}

func (m *ConversationMetrics) ObserveCompletionLatency(seconds float64) {
	if m == nil {
		return
	}
	m.completionSecs.Observe(seconds)
}
