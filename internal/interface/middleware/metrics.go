package middleware

import (
	"expvar"
	"strconv"

	"github.com/gin-gonic/gin"
)

// httpStats is published under /api/debug/vars as "http_requests".
var httpStats = expvar.NewMap("http_requests")

// RequestMetrics counts requests in total and per status class (2xx, 4xx, ...).
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		httpStats.Add("total", 1)
		httpStats.Add(strconv.Itoa(c.Writer.Status()/100)+"xx", 1)
	}
}
