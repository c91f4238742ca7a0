package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bytevault_http_requests_total",
		Help: "HTTP requests served, by route pattern and status class.",
	}, []string{"route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bytevault_http_request_duration_seconds",
		Help:    "Time from request receipt to response.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"route"})

	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bytevault_auth_attempts_total",
		Help: "Register, login and refresh attempts by outcome.",
	}, []string{"kind", "result"})

	LinksCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bytevault_links_created_total",
		Help: "Link save attempts by outcome (created, duplicate, error).",
	}, []string{"result"})

	LinksDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bytevault_links_deleted_total",
		Help: "Links removed through single or bulk delete.",
	})

	SessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bytevault_sessions_created_total",
		Help: "Sessions created.",
	})

	SessionsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bytevault_sessions_deleted_total",
		Help: "Sessions deleted.",
	})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bytevault_rate_limited_total",
		Help: "Requests rejected by the per-IP rate limiter.",
	})

	LinksTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bytevault_links_total",
		Help: "Total number of links in the database.",
	})

	SessionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bytevault_sessions_total",
		Help: "Total number of sessions in the database.",
	})

	UsersTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bytevault_users_total",
		Help: "Total number of registered users in the database.",
	})
)
