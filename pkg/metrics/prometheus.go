// Package metrics provides Prometheus metrics for the CrewMatch service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the CrewMatch service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Matching
	matchRequests      *prometheus.CounterVec
	matchLatency       prometheus.Histogram
	matchScores        prometheus.Histogram
	fallbackSelected   *prometheus.CounterVec
	remoteFetchLatency prometheus.Histogram
	profilesTotal      prometheus.Gauge
	profileUpserts     prometheus.Counter

	// Group chat
	messagesProcessed prometheus.Counter
	messagesDuplicate prometheus.Counter
	deliveryLatency   prometheus.Histogram
	subscribers       prometheus.Gauge
	broadcastDropped  prometheus.Counter

	// Calendar
	eventsSynced      prometheus.Counter
	calendarErrors    prometheus.Counter
	invitationsIssued prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         prometheus.Counter

	// Repository
	repositoryQueryLatency  *prometheus.HistogramVec
	repositoryUpdateLatency *prometheus.HistogramVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueue       prometheus.Counter
	queueDequeue       prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "crewmatch",
		subsystem:        "server",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.matchRequests = auto.NewCounterVec(
		m.counterOpts("match_requests_total", "Total number of match computations by candidate source"),
		[]string{"source"},
	)
	m.matchLatency = auto.NewHistogram(m.histogramOpts("match_latency_milliseconds", "Time to select, score and rank candidates"))
	m.matchScores = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "match_score",
		Help:        "Distribution of compatibility scores returned to clients",
		Buckets:     prometheus.LinearBuckets(0, 10, 11),
		ConstLabels: m.constLabels,
	})
	m.fallbackSelected = auto.NewCounterVec(
		m.counterOpts("fallback_selected_total", "Times the local fallback pool was used, by reason"),
		[]string{"reason"},
	)
	m.remoteFetchLatency = auto.NewHistogram(m.histogramOpts("remote_fetch_latency_milliseconds", "Latency of the remote candidate fetch"))
	m.profilesTotal = auto.NewGauge(m.gaugeOpts("profiles_total", "Number of stored profiles"))
	m.profileUpserts = auto.NewCounter(m.counterOpts("profile_upserts_total", "Total number of profile saves"))

	m.messagesProcessed = auto.NewCounter(m.counterOpts("messages_processed_total", "Total number of chat messages delivered"))
	m.messagesDuplicate = auto.NewCounter(m.counterOpts("messages_duplicate_total", "Total number of resent chat messages detected"))
	m.deliveryLatency = auto.NewHistogram(m.histogramOpts("message_delivery_latency_milliseconds", "Time from accept to fan-out for chat messages"))
	m.subscribers = auto.NewGauge(m.gaugeOpts("realtime_subscribers", "Current number of live chat subscribers"))
	m.broadcastDropped = auto.NewCounter(m.counterOpts("realtime_dropped_total", "Messages not delivered to a slow subscriber"))

	m.eventsSynced = auto.NewCounter(m.counterOpts("calendar_events_synced_total", "Total number of calendar events imported"))
	m.calendarErrors = auto.NewCounter(m.counterOpts("calendar_errors_total", "Total number of failed calendar syncs"))
	m.invitationsIssued = auto.NewCounter(m.counterOpts("invitations_issued_total", "Total number of event invitations sent"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.rateLimited = auto.NewCounter(m.counterOpts("http_rate_limited_total", "Requests rejected by the rate limiter"))

	m.repositoryQueryLatency = auto.NewHistogramVec(
		m.histogramOpts("repository_query_latency_milliseconds", "Repository read latency in milliseconds"),
		[]string{"op"},
	)
	m.repositoryUpdateLatency = auto.NewHistogramVec(
		m.histogramOpts("repository_update_latency_milliseconds", "Repository write latency in milliseconds"),
		[]string{"op"},
	)

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current size of the message queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Queue utilization ratio (current size / capacity)"))
	m.queueEnqueue = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Total number of messages enqueued"))
	m.queueDequeue = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Total number of messages dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Total number of enqueue errors"))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Configured number of workers"))
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Number of running workers"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds", "Worker processing latency in milliseconds"))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Total number of worker errors"))

	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
}

// RecordMatchRequest counts a match computation served from source.
func RecordMatchRequest(source string) {
	globalManager.matchRequests.WithLabelValues(source).Inc()
}

// RecordMatchLatency records end-to-end match latency in milliseconds.
func RecordMatchLatency(latencyMs float64) {
	globalManager.matchLatency.Observe(latencyMs)
}

// RecordMatchScore observes one returned compatibility score.
func RecordMatchScore(score int) {
	globalManager.matchScores.Observe(float64(score))
}

// RecordFallbackSelected counts a fallback pool selection.
func RecordFallbackSelected(reason string) {
	globalManager.fallbackSelected.WithLabelValues(reason).Inc()
}

// RecordRemoteFetchLatency records the remote candidate fetch latency.
func RecordRemoteFetchLatency(latencyMs float64) {
	globalManager.remoteFetchLatency.Observe(latencyMs)
}

// UpdateProfilesTotal sets the stored profile count.
func UpdateProfilesTotal(count int) {
	globalManager.profilesTotal.Set(float64(count))
}

// RecordProfileUpsert increments the profile save counter.
func RecordProfileUpsert() {
	globalManager.profileUpserts.Inc()
}

// RecordMessageProcessed increments the delivered message counter.
func RecordMessageProcessed() {
	globalManager.messagesProcessed.Inc()
}

// RecordMessageDuplicate increments the duplicate message counter.
func RecordMessageDuplicate() {
	globalManager.messagesDuplicate.Inc()
}

// RecordDeliveryLatency records message fan-out latency.
func RecordDeliveryLatency(latencyMs float64) {
	globalManager.deliveryLatency.Observe(latencyMs)
}

// UpdateSubscribers sets the live subscriber count.
func UpdateSubscribers(count int) {
	globalManager.subscribers.Set(float64(count))
}

// RecordBroadcastDropped counts a message skipped for a slow subscriber.
func RecordBroadcastDropped() {
	globalManager.broadcastDropped.Inc()
}

// RecordEventsSynced adds n imported calendar events.
func RecordEventsSynced(n int) {
	globalManager.eventsSynced.Add(float64(n))
}

// RecordCalendarError increments the calendar failure counter.
func RecordCalendarError() {
	globalManager.calendarErrors.Inc()
}

// RecordInvitationIssued increments the invitation counter.
func RecordInvitationIssued() {
	globalManager.invitationsIssued.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRateLimited counts a request rejected by the limiter.
func RecordRateLimited() {
	globalManager.rateLimited.Inc()
}

// RecordRepositoryQueryLatency records a repository read.
func RecordRepositoryQueryLatency(op string, latencyMs float64) {
	globalManager.repositoryQueryLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordRepositoryUpdateLatency records a repository write.
func RecordRepositoryUpdateLatency(op string, latencyMs float64) {
	globalManager.repositoryUpdateLatency.WithLabelValues(op).Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueue.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeue.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
