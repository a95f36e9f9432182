package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
)

// Metrics records workflow counters.
type Metrics interface {
	AchievementSubmitted()
	CertificateUploaded()
	ReviewDecided(decision model.ReviewDecision)
	ReviewConflict()
	PendingBacklog(count int64, oldestAge time.Duration)
}

type NoOpMetrics struct{}

func (NoOpMetrics) AchievementSubmitted() {}
func (NoOpMetrics) CertificateUploaded() {}
func (NoOpMetrics) ReviewDecided(model.ReviewDecision) {}
func (NoOpMetrics) ReviewConflict() {}
func (NoOpMetrics) PendingBacklog(int64, time.Duration) {}

type PrometheusMetrics struct {
	submitted    prometheus.Counter
	certificates prometheus.Counter
	reviews      *prometheus.CounterVec
	conflicts    prometheus.Counter
	pending      prometheus.Gauge
	pendingAge   prometheus.Gauge
}

func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "association",
			Name:      "achievements_submitted_total",
			Help:      "Achievements submitted by members.",
		}),
		certificates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "association",
			Name:      "certificates_uploaded_total",
			Help:      "Certificate files stored in the blob store.",
		}),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "association",
			Name:      "achievement_reviews_total",
			Help:      "Review decisions by outcome.",
		}, []string{"decision"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "association",
			Name:      "achievement_review_conflicts_total",
			Help:      "Review attempts on achievements that were already reviewed.",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "association",
			Name:      "achievements_pending",
			Help:      "Achievements waiting for review.",
		}),
		pendingAge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "association",
			Name:      "achievements_pending_oldest_age_seconds",
			Help:      "Age of the oldest pending achievement.",
		}),
	}
	reg.MustRegister(m.submitted, m.certificates, m.reviews, m.conflicts, m.pending, m.pendingAge)
	return m
}

func (m *PrometheusMetrics) AchievementSubmitted() { m.submitted.Inc() }

func (m *PrometheusMetrics) CertificateUploaded() { m.certificates.Inc() }

func (m *PrometheusMetrics) ReviewDecided(decision model.ReviewDecision) {
	m.reviews.WithLabelValues(string(decision)).Inc()
}

func (m *PrometheusMetrics) ReviewConflict() { m.conflicts.Inc() }

func (m *PrometheusMetrics) PendingBacklog(count int64, oldestAge time.Duration) {
	m.pending.Set(float64(count))
	m.pendingAge.Set(oldestAge.Seconds())
}
