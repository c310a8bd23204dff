package mergepager

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	pagerOneShot   = "oneshot"
	pagerQueue     = "queue"
	pagerStateful  = "stateful"
	outcomeSuccess = "success"
	outcomeError   = "error"
)

var (
	// SourceFetches counts fetches issued to sources by pager and outcome.
	SourceFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mergepager_source_fetches_total",
			Help: "Total number of fetches issued to merged sources",
		},
		[]string{"pager", "outcome"},
	)

	// SourceFetchDuration tracks how long source fetches take.
	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mergepager_source_fetch_duration_seconds",
			Help:    "Duration of fetches issued to merged sources",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"pager"},
	)

	// ResultsEmitted counts merged items handed to callers.
	ResultsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mergepager_results_total",
			Help: "Total number of merged results returned to callers",
		},
		[]string{"pager"},
	)

	// ProtocolViolations counts fatal source contract violations.
	ProtocolViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mergepager_protocol_violations_total",
			Help: "Total number of source contract violations detected by the stateful pager",
		},
		[]string{"kind"}, // "incomplete_page", "out_of_order"
	)
)

func observeFetch(pager string, start time.Time, err error) {
	SourceFetchDuration.WithLabelValues(pager).Observe(time.Since(start).Seconds())
	if err != nil {
		SourceFetches.WithLabelValues(pager, outcomeError).Inc()
		return
	}
	SourceFetches.WithLabelValues(pager, outcomeSuccess).Inc()
}
