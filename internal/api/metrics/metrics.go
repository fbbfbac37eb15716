// Package metrics defines the custom Prometheus metrics for the passenger
// API. It is the single source of truth for metric names, labels, and help
// strings; metrics are registered with the default registry on import via
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "passenger_api"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthLoginsTotal counts login attempts.
// Label:
//   - result: "success", "failure" (bad credentials) or "disabled"
var AuthLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// AuthRegistrationsTotal counts successfully created accounts.
// Label:
//   - role: "user" or "admin"
var AuthRegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_registrations_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// AuthDeniedTotal counts requests rejected by the auth gates.
// Label:
//   - reason: "missing_token", "invalid_token", "disabled", "forbidden"
var AuthDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_denied_total",
		Help:      "Total number of requests rejected before reaching a handler.",
	},
	[]string{"reason"},
)

// ── Passenger metrics ─────────────────────────────────────────────────────────

// PassengerWritesTotal counts mutations on passenger records.
// Label:
//   - operation: "create", "update" or "delete"
var PassengerWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "passenger_writes_total",
		Help:      "Total number of passenger mutations, by operation.",
	},
	[]string{"operation"},
)

// StatsCacheTotal counts statistics cache lookups.
// Label:
//   - result: "hit" or "miss"
var StatsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_cache_total",
		Help:      "Total number of statistics cache lookups, labelled hit/miss.",
	},
	[]string{"result"},
)
