package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-content-storefront/internal/container"
	handlers "github.com/oksasatya/go-content-storefront/internal/interface/http"
	"github.com/oksasatya/go-content-storefront/internal/interface/middleware"
)

// SessionModule wires the session entry flow.
// Public: POST /api/session
// Protected: POST /api/logout
type SessionModule struct {
	Handler *handlers.SessionHandler
	Auth    gin.HandlerFunc
}

func NewSessionModule(h *handlers.SessionHandler, auth gin.HandlerFunc) *SessionModule {
	return &SessionModule{Handler: h, Auth: auth}
}

func (m *SessionModule) Register(rg *gin.RouterGroup) {
	sessionLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil) // 10 req/min per IP
	rg.POST("/session", sessionLimiter, m.Handler.Login)
	rg.POST("/logout", m.Auth, m.Handler.Logout)
}
