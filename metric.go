package payidvalidator

import (
	"strings"
	"time"

	"github.com/everFinance/payid-validator/schema"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricNameSpace = "payid_validator"

	resultPreflight = "preflight"
	resultFatal     = "fatal"
	resultCompleted = "completed"
)

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "runs_total",
			Help:      "validation runs by outcome",
		},
		[]string{"network", "result"},
	)
	scoreHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: MetricNameSpace,
			Name:      "score",
			Help:      "score of completed validation runs",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"network"},
	)
	verdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "verdicts_total",
			Help:      "recorded verdicts by check and code",
		},
		[]string{"check", "code"},
	)
	lookupSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: MetricNameSpace,
			Name:      "lookup_seconds",
			Help:      "address lookup latency by network family",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"family", "code"},
	)
)

func init() {
	prometheus.MustRegister(
		runsTotal,
		scoreHistogram,
		verdictsTotal,
		lookupSeconds,
	)
}

type lookupRecorder struct{}

func (lookupRecorder) ObserveLookup(family string, code schema.Code, elapsed time.Duration) {
	lookupSeconds.WithLabelValues(family, string(code)).Observe(elapsed.Seconds())
}

func metricReport(r *Report) {
	network := r.Network
	if _, ok := schema.LookupNetwork(network); !ok {
		network = "unknown"
	}
	switch {
	case r.HasPreflightErrors():
		runsTotal.WithLabelValues(network, resultPreflight).Inc()
		return
	case !r.Completed:
		runsTotal.WithLabelValues(network, resultFatal).Inc()
		return
	}
	runsTotal.WithLabelValues(network, resultCompleted).Inc()
	scoreHistogram.WithLabelValues(network).Observe(r.Score())
	for _, v := range r.Verdicts {
		verdictsTotal.WithLabelValues(checkName(v.Label), string(v.Code)).Inc()
	}
}

// checkName folds the per-address labels into one metric label.
func checkName(label string) string {
	if strings.HasPrefix(label, "Address[") {
		return "Address verification"
	}
	return label
}
