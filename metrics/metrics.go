package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arcademap_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "arcademap_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
	RegionClassificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arcademap_region_classifications_total",
		Help: "Region classifier outcomes by call site; region is \"none\" on no match",
	}, []string{"source", "region"})
	PopularityRecomputesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arcademap_popularity_recomputes_total",
		Help: "Analytics writes that recomputed a popularity score",
	}, []string{"entity", "counter"})
	PointsAwardedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arcademap_points_awarded_total",
		Help: "Gamification points awarded by action",
	}, []string{"action"})
	ViewsDedupedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "arcademap_views_deduped_total",
		Help: "Views ignored because the viewer was seen inside the window",
	})
	ModerationDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arcademap_moderation_decisions_total",
		Help: "Comment moderation decisions",
	}, []string{"decision"})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(RegionClassificationsTotal)
	prometheus.MustRegister(PopularityRecomputesTotal)
	prometheus.MustRegister(PointsAwardedTotal)
	prometheus.MustRegister(ViewsDedupedTotal)
	prometheus.MustRegister(ModerationDecisionsTotal)
}

// ObserveClassification counts one classifier call.
func ObserveClassification(source, region string) {
	if region == "" {
		region = "none"
	}
	RegionClassificationsTotal.WithLabelValues(source, region).Inc()
}

// GinMiddleware records request counts and latency by matched route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDurationMs.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	}
}

// Handler exposes the registry for Prometheus scraping.
func Handler() http.Handler { return promhttp.Handler() }
