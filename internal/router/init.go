package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/oksasatya/go-content-storefront/internal/application"
	"github.com/oksasatya/go-content-storefront/internal/container"
	"github.com/oksasatya/go-content-storefront/internal/infrastructure/identity"
	"github.com/oksasatya/go-content-storefront/internal/infrastructure/kvrepo"
	handlers "github.com/oksasatya/go-content-storefront/internal/interface/http"
	"github.com/oksasatya/go-content-storefront/internal/interface/middleware"
	"github.com/oksasatya/go-content-storefront/internal/router/modules"
	"github.com/oksasatya/go-content-storefront/pkg/helpers"
	"github.com/oksasatya/go-content-storefront/pkg/response"
)

// LoginPath is where unauthenticated callers are pointed.
const LoginPath = "/api/session"

type AppDeps struct {
	Access  *app.AccessControl
	Content *app.ContentService
	Reset   *app.ResetService
	Session *handlers.SessionHandler
	Cookies *helpers.Manager
}

func buildDeps() AppDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := container.GetStore()
	files := container.GetFiles()

	contentRepo := kvrepo.NewContentRepository(store)
	users := kvrepo.NewUserRepository(store)
	orders := kvrepo.NewOrderRepository(store)

	access := app.NewAccessControl(cfg.Admins(), users)
	index := app.NewContentIndex(container.GetES(), cfg.ESContentIndex, logger)

	var notifier *app.Notifier
	if pub := container.GetRabbitPub(); pub != nil {
		notifier = app.NewNotifier(pub, cfg.NotifyEmail, cfg.AppName, logger)
	}

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)
	provider := identity.NewJWTProvider(container.GetJWT())

	collector, _ := container.GetMetrics()
	content := app.NewContentService(contentRepo, files, access, index, notifier, logger)
	content.Metrics = collector
	reset := app.NewResetService(contentRepo, orders, users, files, index, notifier, logger)
	reset.Metrics = collector

	return AppDeps{
		Access:  access,
		Content: content,
		Reset:   reset,
		Session: handlers.NewSessionHandler(provider, users, access, cookies, cfg.AccessTTL, logger),
		Cookies: cookies,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	d := buildDeps()

	auth := middleware.Authenticate(d.Session.Provider, d.Session.Users, LoginPath, logger)
	adminOnly := middleware.AdminOnly(d.Access, d.Cookies, handlers.CatalogPath)

	r.Add(ModuleFunc(func(rg *gin.RouterGroup) {
		rg.GET("/healthz", func(c *gin.Context) {
			response.Success(c, http.StatusOK, gin.H{"store": cfg.StoreDriver, "storage": cfg.StorageDriver}, "ok", nil)
		})
	}))
	r.Add(modules.NewSessionModule(d.Session, auth))
	r.Add(modules.NewContentModule(handlers.NewContentHandler(d.Content, d.Access, d.Cookies, logger), auth))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(d.Content, d.Reset, d.Cookies, logger, cfg.MaxUploadBytes()), auth, adminOnly))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
