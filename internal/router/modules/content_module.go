package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-content-storefront/internal/container"
	handlers "github.com/oksasatya/go-content-storefront/internal/interface/http"
	"github.com/oksasatya/go-content-storefront/internal/interface/middleware"
)

// ContentModule wires the catalog and delivery routes.
// Public: GET /api/static/:filename
// Protected: GET /api/content, /api/content/search, /api/content/:content_id, /api/content-file/:content_id
type ContentModule struct {
	Handler *handlers.ContentHandler
	Auth    gin.HandlerFunc
}

func NewContentModule(h *handlers.ContentHandler, auth gin.HandlerFunc) *ContentModule {
	return &ContentModule{Handler: h, Auth: auth}
}

func (m *ContentModule) Register(rg *gin.RouterGroup) {
	rg.GET("/static/:filename",
		middleware.RateLimit(container.GetRedis(), 600, time.Minute, middleware.KeyByIP(), nil),
		m.Handler.Static,
	)

	auth := rg.Group("")
	auth.Use(m.Auth)
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIdentity(), nil),
	)
	{
		auth.GET("/content", m.Handler.List)
		auth.GET("/content/search", m.Handler.Search)
		auth.GET("/content/:content_id", m.Handler.Get)
		auth.GET("/content-file/:content_id", m.Handler.File)
	}
}
