package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func init() { gin.SetMode(gin.TestMode) }

func scrape(t *testing.T, reg prometheus.Gatherer) string {
	t.Helper()
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestMiddleware_LabelsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	r := gin.New()
	r.Use(c.Middleware())
	r.GET("/content/:id", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	for _, path := range []string{"/content/a", "/content/b", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	body := scrape(t, reg)
	assert.Contains(t, body, `storefront_http_requests_total{method="GET",route="/content/:id",status="200"} 2`)
	assert.Contains(t, body, `storefront_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, body, `storefront_http_request_duration_seconds_count{method="GET",route="/content/:id"} 2`)
}

func TestCatalogCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordContentCreated(true)
	c.RecordContentCreated(false)
	c.RecordDelivery("denied")
	c.RecordDelivery("served")
	c.RecordReset(0)
	c.RecordReset(2)

	body := scrape(t, reg)
	assert.Contains(t, body, `storefront_content_created_total{paywalled="true"} 1`)
	assert.Contains(t, body, `storefront_content_created_total{paywalled="false"} 1`)
	assert.Contains(t, body, `storefront_content_deliveries_total{outcome="denied"} 1`)
	assert.Contains(t, body, `storefront_content_deliveries_total{outcome="served"} 1`)
	assert.Contains(t, body, `storefront_catalog_resets_total{result="ok"} 1`)
	assert.Contains(t, body, `storefront_catalog_resets_total{result="partial"} 1`)
}
