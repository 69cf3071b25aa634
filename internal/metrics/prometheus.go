package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "review_insight_analysis_duration_seconds",
			Help:    "End-to-end analysis run duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"mode"},
	)

	AnalysisTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_insight_analysis_total",
			Help: "Total number of analysis runs",
		},
		[]string{"status"},
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_insight_llm_requests_total",
			Help: "Total LLM API calls by outcome",
		},
		[]string{"status"},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_insight_llm_tokens_used",
			Help: "Total LLM tokens used",
		},
		[]string{"model", "type"},
	)

	RowsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "review_insight_rows_processed_total",
			Help: "Total spreadsheet rows sent through the pipeline",
		},
	)

	RowsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "review_insight_rows_skipped_total",
			Help: "Total rows filtered out before the LLM call",
		},
	)

	InsightsExtracted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_insight_insights_total",
			Help: "Total insights extracted by aspect and sentiment",
		},
		[]string{"aspect", "sentiment"},
	)

	BatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "review_insight_batch_size",
			Help:    "Number of reviews per LLM batch after filtering",
			Buckets: []float64{1, 2, 3, 4, 8, 16, 32},
		},
	)

	ConsistencyScore = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "review_insight_consistency_score",
			Help: "Latest dual-run consistency score (percent)",
		},
	)

	ValidationAccuracy = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "review_insight_validation_accuracy",
			Help: "Latest gold-standard validation accuracy (percent)",
		},
	)
)

func Init() {
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(AnalysisTotal)
	prometheus.MustRegister(LLMRequestsTotal)
	prometheus.MustRegister(LLMTokensUsed)
	prometheus.MustRegister(RowsProcessed)
	prometheus.MustRegister(RowsSkipped)
	prometheus.MustRegister(InsightsExtracted)
	prometheus.MustRegister(BatchSize)
	prometheus.MustRegister(ConsistencyScore)
	prometheus.MustRegister(ValidationAccuracy)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
