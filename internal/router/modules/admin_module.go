package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-content-storefront/internal/interface/http"
)

// AdminModule wires the admin-only routes under /api/admin.
type AdminModule struct {
	Handler *handlers.AdminHandler
	Auth    gin.HandlerFunc
	Admin   gin.HandlerFunc
}

func NewAdminModule(h *handlers.AdminHandler, auth, admin gin.HandlerFunc) *AdminModule {
	return &AdminModule{Handler: h, Auth: auth, Admin: admin}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	adm := rg.Group("/admin")
	adm.Use(m.Auth, m.Admin)
	{
		adm.GET("/content-create", m.Handler.CreateForm)
		adm.POST("/content-create", m.Handler.Create)
		adm.POST("/db-flush", m.Handler.Flush)
	}
}
