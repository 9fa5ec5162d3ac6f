package recipeingester

import (
	"time"

	"github.com/c360studio/semstreams/metric"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/semrecipe/source"
)

const metricsService = "recipe_ingester"

// ingesterMetrics holds the Prometheus collectors. A nil *ingesterMetrics
// records nothing.
type ingesterMetrics struct {
	imports  *prometheus.CounterVec
	recipes  prometheus.Counter
	duration prometheus.Histogram
}

func newIngesterMetrics(registry *metric.MetricsRegistry) (*ingesterMetrics, error) {
	if registry == nil {
		return nil, nil
	}
	m := &ingesterMetrics{
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semrecipe",
			Subsystem: "ingester",
			Name:      "imports_total",
			Help:      "Import requests by outcome",
		}, []string{"status"}),
		recipes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "semrecipe",
			Subsystem: "ingester",
			Name:      "recipes_extracted_total",
			Help:      "Recipes extracted from imported pages",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "semrecipe",
			Subsystem: "ingester",
			Name:      "extract_duration_seconds",
			Help:      "Time to fetch, extract and store one page",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}
	if err := registry.RegisterCounterVec(metricsService, "imports", m.imports); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(metricsService, "recipes_extracted", m.recipes); err != nil {
		return nil, err
	}
	if err := registry.RegisterHistogram(metricsService, "extract_duration", m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ingesterMetrics) observe(status source.ImportStatus, recipes int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(string(status)).Inc()
	m.recipes.Add(float64(recipes))
	m.duration.Observe(elapsed.Seconds())
}
