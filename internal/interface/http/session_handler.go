package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-content-storefront/internal/application"
	repo "github.com/oksasatya/go-content-storefront/internal/domain/repository"
	"github.com/oksasatya/go-content-storefront/pkg/helpers"
	"github.com/oksasatya/go-content-storefront/pkg/response"
	"github.com/oksasatya/go-content-storefront/pkg/validation"
)

// SessionHandler exchanges an identity-provider token for the session cookie.
type SessionHandler struct {
	Provider repo.IdentityProvider
	Users    repo.UserRepository
	Access   *app.AccessControl
	Cookies  *helpers.Manager
	TTL      time.Duration
	Logger   *logrus.Logger
}

func NewSessionHandler(provider repo.IdentityProvider, users repo.UserRepository, access *app.AccessControl, cookies *helpers.Manager, ttl time.Duration, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{Provider: provider, Users: users, Access: access, Cookies: cookies, TTL: ttl, Logger: logger}
}

type sessionRequest struct {
	Token string `json:"token" binding:"required"`
}

// Login POST /api/session
func (h *SessionHandler) Login(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	id, err := h.Provider.Identify(req.Token)
	if err != nil || !id.Authenticated {
		response.Error[any](c, http.StatusUnauthorized, "invalid token", nil)
		return
	}
	if _, err := h.Users.EnsureExists(c.Request.Context(), id.ID); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	exp := time.Now().Add(h.TTL)
	h.Cookies.SetAccess(c, req.Token, exp)
	if h.Logger != nil {
		h.Logger.WithField("identity", id.ID).Info("session started")
	}
	response.Success(c, http.StatusOK, gin.H{
		"identity": id.ID,
		"admin":    h.Access.IsAdmin(id.ID),
	}, "session started", gin.H{"expires_at": exp})
}

// Logout POST /api/logout
func (h *SessionHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}
