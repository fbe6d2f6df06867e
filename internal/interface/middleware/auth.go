package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-content-storefront/internal/domain/repository"
	"github.com/oksasatya/go-content-storefront/pkg/helpers"
	"github.com/oksasatya/go-content-storefront/pkg/response"
)

const CtxIdentityKey = "identity"

// Admins reports whether an identity may use the admin routes.
type Admins interface {
	IsAdmin(identity string) bool
}

// Authenticate resolves the caller through the identity provider, from the
// access_token cookie or a Bearer header, and records the user on first
// sight. It sets "identity" in the Gin context on success.
func Authenticate(provider repository.IdentityProvider, users repository.UserRepository, loginURL string, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := provider.Identify(tokenFromRequest(c))
		if err != nil || !id.Authenticated || id.ID == "" {
			response.Error[any](c, http.StatusUnauthorized, "Unauthorized", gin.H{"login_url": loginURL})
			c.Abort()
			return
		}
		if _, err := users.EnsureExists(c.Request.Context(), id.ID); err != nil {
			if logger != nil {
				logger.WithError(err).WithField("identity", id.ID).Error("ensure user failed")
			}
			response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
			c.Abort()
			return
		}
		c.Set(CtxIdentityKey, id.ID)
		c.Next()
	}
}

// AdminOnly must run after Authenticate. It is the only place the
// permission-denied class surfaces: non-admins get a 303 back to the
// catalog with a warning notice, never a 403 envelope.
func AdminOnly(admins Admins, cookies *helpers.Manager, redirectTo string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !admins.IsAdmin(IdentityFrom(c)) {
			cookies.SetFlash(c, "warning", "Permission denied.")
			c.Redirect(http.StatusSeeOther, redirectTo)
			c.Abort()
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity set by Authenticate, or "".
func IdentityFrom(c *gin.Context) string {
	return c.GetString(CtxIdentityKey)
}

func tokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(helpers.AccessTokenCookie); err == nil && token != "" {
		return token
	}
	if h := c.GetHeader("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
