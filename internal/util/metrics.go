package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuotesRequestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quotes_requested_total",
		Help: "Total number of orders placed through the quote gateway",
	})

	QuotesPricedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quotes_priced_total",
		Help: "Total number of quotes marked priced by an admin",
	})

	QuotesSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quotes_sent_total",
		Help: "Total number of quote notifications sent (resends included)",
	})

	QuotesCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quotes_cancelled_total",
		Help: "Total number of cancelled quote orders",
	})

	CartConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_conflicts_total",
		Help: "Total number of mixed-cart conflicts resolved by clearing the cart",
	})

	IllegalTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_illegal_transitions_total",
		Help: "Total number of state machine operations rejected as illegal",
	}, []string{"operation"})

	QuoteEmailsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_emails_skipped_total",
		Help: "Total number of quote emails skipped by the dispatcher",
	}, []string{"reason"})

	QuoteEmailsDeliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quote_emails_delivered_total",
		Help: "Total number of quote emails delivered by the notification worker",
	})

	BulkPagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quote_bulk_pages_total",
		Help: "Total number of catalog pages processed by the bulk updater",
	})

	BulkProductsUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quote_bulk_products_updated_total",
		Help: "Total number of products updated by the bulk updater",
	})

	BulkApplyLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "quote_bulk_apply_latency_seconds",
		Help:    "Latency of full-catalog quotable flag application",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
