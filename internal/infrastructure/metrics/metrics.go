package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ci_dashboard_cache_hits_total",
			Help: "Snapshots served from the freshness cache without querying",
		},
		[]string{"app"},
	)

	Refreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ci_dashboard_refreshes_total",
			Help: "Build-history queries by outcome",
		},
		[]string{"app", "outcome"},
	)

	RefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ci_dashboard_refresh_duration_seconds",
			Help:    "Duration of a build-history query plus classification",
			Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 30},
		},
		[]string{"app"},
	)

	Triggers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ci_dashboard_triggers_total",
			Help: "Workflow dispatches by outcome",
		},
		[]string{"app", "outcome"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ci_dashboard_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"route", "code"},
	)
)
