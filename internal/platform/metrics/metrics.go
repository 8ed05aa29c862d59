package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes recorded by IncrementLogin.
const (
	LoginSucceeded = "success"
	LoginFailed    = "failure"
)

// Metrics holds all Prometheus metrics for the application. Every method is safe to
// call on a nil receiver so tests can omit metrics entirely.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	UsersRegistered prometheus.Counter
	Logins          *prometheus.CounterVec
	PostsCreated    prometheus.Counter
	PostsUpdated    prometheus.Counter
	PostsDeleted    prometheus.Counter
}

// New creates the application metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "postboard_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method, route pattern and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),

		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "postboard_users_registered_total",
			Help: "Total number of accounts registered",
		}),

		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "postboard_logins_total",
			Help: "Total login attempts by outcome",
		}, []string{"outcome"}),

		PostsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "postboard_posts_created_total",
			Help: "Total number of posts created",
		}),
		PostsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "postboard_posts_updated_total",
			Help: "Total number of posts updated",
		}),
		PostsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "postboard_posts_deleted_total",
			Help: "Total number of posts deleted",
		}),
	}
}

// NewRegistry returns a registry preloaded with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the metrics gathered by g in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ObserveRequest records the duration of one HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementUsersRegistered() {
	if m != nil {
		m.UsersRegistered.Inc()
	}
}

// IncrementLogin records a login attempt; outcome is LoginSucceeded or LoginFailed.
func (m *Metrics) IncrementLogin(outcome string) {
	if m != nil {
		m.Logins.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementPostsCreated() {
	if m != nil {
		m.PostsCreated.Inc()
	}
}

func (m *Metrics) IncrementPostsUpdated() {
	if m != nil {
		m.PostsUpdated.Inc()
	}
}

func (m *Metrics) IncrementPostsDeleted() {
	if m != nil {
		m.PostsDeleted.Inc()
	}
}
