package metrics

import "github.com/prometheus/client_golang/prometheus"

// InterviewMetrics exposes counters/histograms for the interview lifecycle.
type InterviewMetrics struct {
	startedTotal   *prometheus.CounterVec
	responsesTotal *prometheus.CounterVec
	completedTotal *prometheus.CounterVec
	submitLatency  *prometheus.HistogramVec
	reportWrites   *prometheus.CounterVec
}

func NewInterviewMetrics(reg prometheus.Registerer) *InterviewMetrics {
	m := &InterviewMetrics{
		startedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pitchlane",
			Subsystem: "interview",
			Name:      "sessions_started_total",
			Help:      "Total interview sessions started",
		}, []string{"status"}),
		responsesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pitchlane",
			Subsystem: "interview",
			Name:      "responses_total",
			Help:      "Total founder responses recorded",
		}, []string{"category", "follow_up"}),
		completedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pitchlane",
			Subsystem: "interview",
			Name:      "sessions_ended_total",
			Help:      "Total interview sessions ended, by terminal status",
		}, []string{"status"}),
		submitLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pitchlane",
			Subsystem: "interview",
			Name:      "submit_latency_seconds",
			Help:      "Latency of response submission processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"category"}),
		reportWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pitchlane",
			Subsystem: "interview",
			Name:      "report_writes_total",
			Help:      "Total report sink writes",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.startedTotal, m.responsesTotal, m.completedTotal, m.submitLatency, m.reportWrites)
	return m
}

func (m *InterviewMetrics) ObserveSessionStarted(status string) {
	if m == nil {
		return
	}
	m.startedTotal.WithLabelValues(status).Inc()
}

func (m *InterviewMetrics) ObserveResponse(category string, followUp bool) {
	if m == nil {
		return
	}
	label := "false"
	if followUp {
		label = "true"
	}
	m.responsesTotal.WithLabelValues(category, label).Inc()
}

func (m *InterviewMetrics) ObserveSessionEnded(status string) {
	if m == nil {
		return
	}
	m.completedTotal.WithLabelValues(status).Inc()
}

func (m *InterviewMetrics) ObserveSubmitLatency(category string, seconds float64) {
	if m == nil {
		return
	}
	m.submitLatency.WithLabelValues(category).Observe(seconds)
}

func (m *InterviewMetrics) ObserveReportWrite(status string) {
	if m == nil {
		return
	}
	m.reportWrites.WithLabelValues(status).Inc()
}
