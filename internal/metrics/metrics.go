package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "foodgram_api_active_requests",
			Help: "Number of requests currently being served",
		},
	)

	// Catalogue cache (tags and ingredients)
	CatalogCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_catalog_cache_hits_total",
			Help: "Catalogue lookups served from the LRU cache",
		},
		[]string{"kind"},
	)

	CatalogCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_catalog_cache_misses_total",
			Help: "Catalogue lookups that went to the database",
		},
		[]string{"kind"},
	)

	// Domain events
	RecipesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_recipes_created_total",
			Help: "Total number of recipes created",
		},
	)

	ShoppingListDownloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_downloads_total",
			Help: "Total number of shopping lists rendered",
		},
	)

	ShoppingListItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_items",
			Help:    "Distinct ingredients per rendered shopping list",
			Buckets: []float64{1, 5, 10, 20, 50, 100},
		},
	)
)

// RecordAPIRequest records a finished request
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight gauge
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCatalogLookup counts a cache hit or miss for the given kind ("tag", "ingredient")
func RecordCatalogLookup(kind string, hit bool) {
	if hit {
		CatalogCacheHits.WithLabelValues(kind).Inc()
		return
	}
	CatalogCacheMisses.WithLabelValues(kind).Inc()
}

// RecordShoppingList counts a rendered shopping list and its size
func RecordShoppingList(items int) {
	ShoppingListDownloads.Inc()
	ShoppingListItems.Observe(float64(items))
}
