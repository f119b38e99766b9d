package prometheus

import (
	"classifieds-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Listing metrics
	ListingOperationsCounter prometheus.CounterVec
	ListingViewsCounter      prometheus.CounterVec

	// Moderation metrics
	ModerationActionsCounter prometheus.CounterVec

	// Coupon metrics
	CouponClaimsCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Listing operations (create, update, query)
	ListingOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_listing_operations_total",
			Help: "Total number of listing operations",
		},
		[]string{"operation"},
	)

	// Listing page views by listing type
	ListingViewsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_listing_views_total",
			Help: "Total number of listing page views",
		},
		[]string{"listing_type"},
	)

	// Moderation actions by action and outcome
	ModerationActionsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_moderation_actions_total",
			Help: "Total number of moderation actions",
		},
		[]string{"action", "outcome"},
	)

	// Coupon claims by outcome
	CouponClaimsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_coupon_claims_total",
			Help: "Total number of coupon claim attempts",
		},
		[]string{"outcome"},
	)
}

// RecordListingOperation increments the counter for listing operations
func RecordListingOperation(operation string) {
	ListingOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordListingView increments the view counter for a listing type
func RecordListingView(listingType string) {
	ListingViewsCounter.WithLabelValues(listingType).Inc()
}

// RecordModerationAction increments the counter for moderation actions
func RecordModerationAction(action, outcome string) {
	ModerationActionsCounter.WithLabelValues(action, outcome).Inc()
}

// RecordCouponClaim increments the counter for coupon claim attempts
func RecordCouponClaim(outcome string) {
	CouponClaimsCounter.WithLabelValues(outcome).Inc()
}
