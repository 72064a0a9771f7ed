// Package metrics defines and registers all custom Prometheus metrics for the
// care console gateway. It is the single source of truth for metric names,
// labels, and help strings; metrics register themselves with the default
// registry via promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - outcome: "success", "invalid_credentials", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of console login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// SessionsActive tracks the number of live console sessions.
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Number of currently active console sessions.",
	},
)

// SessionsInvalidatedTotal counts sessions force-cleared by an upstream 401.
var SessionsInvalidatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_invalidated_total",
		Help:      "Total number of sessions invalidated after an upstream 401.",
	},
)

// UpstreamRequestsTotal counts calls to the care backend.
// Labels:
//   - method: HTTP method
//   - status: upstream status code, or "none" when no response arrived
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests sent to the care backend.",
	},
	[]string{"method", "status"},
)

// CacheRefreshTotal counts resource cache loads.
// Labels:
//   - resource: collection name (tickets, clients, routers, sites, users)
//   - result: "ok", "stale" (dropped by a newer load), "shape_mismatch", or "error"
var CacheRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_refresh_total",
		Help:      "Total number of resource collection loads, by result.",
	},
	[]string{"resource", "result"},
)

// GuardRedirectsTotal counts navigations bounced to the login entry point.
// Label:
//   - required_role: the role the route demanded, or "any"
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of requests redirected to login by the route guard.",
	},
	[]string{"required_role"},
)
