package prometheus

import (
	"fmt"
	"time"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Analysis core
	AnalysisRequestsTotal   CounterVec
	AnalysisDuration        HistogramVec
	AnalysisMessagesTotal   CounterVec
	HighValueMessagesTotal  CounterVec
	RiskLevelsTotal         CounterVec
	PredictionRequestsTotal CounterVec
	PredictionDuration      HistogramVec
	PrecedentSearchDuration HistogramVec
	PrecedentSearchFailures CounterVec

	// Worker layer
	WorkerTasksTotal   CounterVec
	WorkerTaskDuration HistogramVec
	WorkerTaskRetries  CounterVec
	WorkerQueueDepth   GaugeVec

	// Infrastructure layer
	DBConnectionPoolSize   GaugeVec
	DBConnectionPoolActive GaugeVec
	DBQueryDuration        HistogramVec
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	MessageProcessDuration HistogramVec

	// System health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default buckets
var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultAnalysisDurationBuckets = []float64{.05, .1, .5, 1, 5, 10, 30, 60, 120, 300}
	DefaultDBDurationBuckets       = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers all metrics and returns the AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	// Analysis core
	m.AnalysisRequestsTotal = collector.RegisterCounter("analysis_requests_total", "Case analysis requests", "status")
	m.AnalysisDuration = collector.RegisterHistogram("analysis_duration_seconds", "Case analysis duration", DefaultAnalysisDurationBuckets, "trigger")
	m.AnalysisMessagesTotal = collector.RegisterCounter("analysis_messages_total", "Messages scored", "trigger")
	m.HighValueMessagesTotal = collector.RegisterCounter("analysis_high_value_messages_total", "Messages above the high-value threshold")
	m.RiskLevelsTotal = collector.RegisterCounter("analysis_risk_levels_total", "Risk triage outcomes", "level")
	m.PredictionRequestsTotal = collector.RegisterCounter("prediction_requests_total", "Division prediction requests", "status", "confidence")
	m.PredictionDuration = collector.RegisterHistogram("prediction_duration_seconds", "Division prediction duration", DefaultAnalysisDurationBuckets, "trigger")
	m.PrecedentSearchDuration = collector.RegisterHistogram("precedent_search_duration_seconds", "Precedent vector-search duration", DefaultHTTPDurationBuckets)
	m.PrecedentSearchFailures = collector.RegisterCounter("precedent_search_failures_total", "Degraded predictions due to index failures", "reason")

	// Workers
	m.WorkerTasksTotal = collector.RegisterCounter("worker_tasks_total", "Worker tasks processed", "type", "status")
	m.WorkerTaskDuration = collector.RegisterHistogram("worker_task_duration_seconds", "Worker task duration", DefaultAnalysisDurationBuckets, "type")
	m.WorkerTaskRetries = collector.RegisterCounter("worker_task_retries_total", "Worker task retries", "type", "reason")
	m.WorkerQueueDepth = collector.RegisterGauge("worker_queue_depth", "Worker queue depth", "topic")

	// Infrastructure
	m.DBConnectionPoolSize = collector.RegisterGauge("db_pool_size", "Database connection pool size", "db")
	m.DBConnectionPoolActive = collector.RegisterGauge("db_pool_active", "Database active connections", "db")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "db", "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.MessageProcessDuration = collector.RegisterHistogram("mq_process_duration_seconds", "Message processing duration", DefaultHTTPDurationBuckets, "topic", "message_type")

	// System health
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type", "severity")

	return m
}

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	status := fmt.Sprintf("%d", statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordAnalysis(metrics *AppMetrics, trigger string, messages, highValue int, riskLevel string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.AnalysisRequestsTotal.WithLabelValues(status).Inc()
	metrics.AnalysisDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	if err != nil {
		return
	}
	metrics.AnalysisMessagesTotal.WithLabelValues(trigger).Add(float64(messages))
	metrics.HighValueMessagesTotal.WithLabelValues().Add(float64(highValue))
	metrics.RiskLevelsTotal.WithLabelValues(riskLevel).Inc()
}

func RecordPrediction(metrics *AppMetrics, trigger, confidence string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
		confidence = "NONE"
	}
	metrics.PredictionRequestsTotal.WithLabelValues(status, confidence).Inc()
	metrics.PredictionDuration.WithLabelValues(trigger).Observe(duration.Seconds())
}

func RecordDBQuery(metrics *AppMetrics, db, operation string, duration time.Duration, err error) {
	metrics.DBQueryDuration.WithLabelValues(db, operation).Observe(duration.Seconds())
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(db, "query_error", "error").Inc()
	}
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordError(metrics *AppMetrics, component, errorType, severity string) {
	metrics.ErrorsTotal.WithLabelValues(component, errorType, severity).Inc()
}
