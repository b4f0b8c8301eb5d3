package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"linkboard/internal/domain"
)

// Submission outcomes.
const (
	OutcomeCreated       = "created"
	OutcomeDuplicate     = "duplicate"
	OutcomeInvalid       = "invalid"
	OutcomeMetadataError = "metadata_error"
	OutcomeStorageError  = "storage_error"
	OutcomeError         = "error"
)

// Metrics records bot activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	submissions       *prometheus.CounterVec
	scrapeDuration    prometheus.Histogram
	modalOpenFailures *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkboard",
			Name:      "submissions_total",
			Help:      "Modal submissions processed, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		scrapeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "linkboard",
			Name:      "scrape_duration_seconds",
			Help:      "Time spent fetching Open Graph metadata.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		modalOpenFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkboard",
			Name:      "modal_open_failures_total",
			Help:      "Slash commands whose modal could not be opened.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) ObserveSubmission(kind domain.Kind, outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(string(kind), outcome).Inc()
}

func (m *Metrics) ObserveScrape(d time.Duration) {
	if m == nil {
		return
	}
	m.scrapeDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveModalOpenFailure(kind domain.Kind) {
	if m == nil {
		return
	}
	m.modalOpenFailures.WithLabelValues(string(kind)).Inc()
}
