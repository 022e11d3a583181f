package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// CustomerMetrics provides observability for customer commands and queries.
type CustomerMetrics struct {
	CustomersCreated  prometheus.Counter
	CustomersUpdated  prometheus.Counter
	CustomersDeleted  prometheus.Counter
	Conflicts         *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// NewCustomerMetrics creates the customer metrics and registers them with reg
func NewCustomerMetrics(reg prometheus.Registerer) *CustomerMetrics {
	f := promauto.With(reg)
	return &CustomerMetrics{
		CustomersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "customerhub_customers_created_total",
			Help: "Total number of customers created",
		}),
		CustomersUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "customerhub_customers_updated_total",
			Help: "Total number of customers updated",
		}),
		CustomersDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "customerhub_customers_deleted_total",
			Help: "Total number of customers deleted",
		}),
		Conflicts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "customerhub_customer_conflicts_total",
			Help: "Create or update attempts rejected by a uniqueness rule",
		}, []string{"code"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "customerhub_customer_operation_duration_seconds",
			Help:    "Duration of customer command and query handlers",
			Buckets: durationBuckets,
		}, []string{"operation"}),
	}
}

// IncrementCreated records a successful customer creation.
func (m *CustomerMetrics) IncrementCreated() {
	m.CustomersCreated.Inc()
}

// IncrementUpdated records a successful customer update.
func (m *CustomerMetrics) IncrementUpdated() {
	m.CustomersUpdated.Inc()
}

// IncrementDeleted records a successful customer deletion.
func (m *CustomerMetrics) IncrementDeleted() {
	m.CustomersDeleted.Inc()
}

// IncrementConflict records a uniqueness violation by error code.
func (m *CustomerMetrics) IncrementConflict(code string) {
	m.Conflicts.WithLabelValues(code).Inc()
}

// ObserveOperation records the duration of a handler call.
// Call with time.Now() at the start of the operation.
func (m *CustomerMetrics) ObserveOperation(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// HTTPMetrics tracks inbound HTTP requests.
type HTTPMetrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
}

// NewHTTPMetrics creates the HTTP metrics and registers them with reg
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	f := promauto.With(reg)
	return &HTTPMetrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "customerhub_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "customerhub_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and method",
			Buckets: durationBuckets,
		}, []string{"method", "route"}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "customerhub_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		}),
	}
}

// ObserveRequest records a finished request.
func (m *HTTPMetrics) ObserveRequest(method, route, status string, start time.Time) {
	m.Requests.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}
