// Package metrics defines and registers the Prometheus collectors for the
// site backend. All collectors live on the default registry and are exposed
// at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketing_site"

// HTTPRequestsTotal counts handled requests.
// Labels:
//   - method: HTTP method
//   - route: gin route template (e.g. "/api/contact"), "unmatched" for 404s
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures handler latency.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests from first middleware to response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ContactSubmissionsTotal counts contact form outcomes.
// Label:
//   - result: "stored", "invalid", "rate_limited" or "error"
var ContactSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_submissions_total",
		Help:      "Total number of contact form submissions, by outcome.",
	},
	[]string{"result"},
)

// AdminLoginsTotal counts admin login attempts.
// Label:
//   - result: "success", "rejected" or "error"
var AdminLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_logins_total",
		Help:      "Total number of admin login attempts, by outcome.",
	},
	[]string{"result"},
)
