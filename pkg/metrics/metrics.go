// Package metrics exposes Prometheus metrics for the storefront.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the HTTP and catalog metrics.
type Collector struct {
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	created    *prometheus.CounterVec
	deliveries *prometheus.CounterVec
	resets     *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_content_created_total",
			Help: "Content entries created",
		}, []string{"paywalled"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_content_deliveries_total",
			Help: "Content file requests by outcome",
		}, []string{"outcome"}),
		resets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_catalog_resets_total",
			Help: "Catalog resets by result",
		}, []string{"result"}),
	}

	reg.MustRegister(c.requests, c.latency, c.created, c.deliveries, c.resets)
	return c
}

// Middleware records every request. Unmatched routes share one label so
// random paths cannot blow up cardinality.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method
		c.requests.WithLabelValues(method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.latency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func (c *Collector) RecordContentCreated(paywalled bool) {
	c.created.WithLabelValues(strconv.FormatBool(paywalled)).Inc()
}

func (c *Collector) RecordDelivery(outcome string) {
	c.deliveries.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordReset(failedSteps int) {
	result := "ok"
	if failedSteps > 0 {
		result = "partial"
	}
	c.resets.WithLabelValues(result).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
