// Package metrics exposes prometheus counters for the HTTP surface and
// the pipeline.
package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flixhiring_http_requests_total",
		Help: "HTTP requests served, by method, route and status.",
	}, []string{"method", "route", "status"})

	// StageTransitions counts applied stage transitions by target stage
	StageTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flixhiring_stage_transitions_total",
		Help: "Stage transitions applied, by target stage.",
	}, []string{"stage"})

	// ApplicantsCreated counts applicant records created
	ApplicantsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flixhiring_applicants_created_total",
		Help: "Applicant records created.",
	})
)

// RequestCounter is a gin middleware recording every served request
func RequestCounter() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Handler serves the prometheus scrape endpoint
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
