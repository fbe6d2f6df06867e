package helpers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie = "access_token"
	FlashCookie       = "flash"
)

type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

func (m *Manager) SetAccess(c *gin.Context, access string, aexp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, access, maxAgeFrom(aexp), "/", m.Domain, m.Secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", m.Domain, m.Secure, true)
	c.SetCookie(FlashCookie, "", -1, "/", m.Domain, m.Secure, true)
}

// Flash is a one-shot notice carried across a redirect.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// SetFlash queues a notice for the next response that calls PopFlash.
func (m *Manager) SetFlash(c *gin.Context, category, message string) {
	if category == "" {
		category = "message"
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, category+":"+message, 60, "/", m.Domain, m.Secure, true)
}

// PopFlash returns the queued notice, if any, and clears it.
func (m *Manager) PopFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(FlashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, "", -1, "/", m.Domain, m.Secure, true)

	category, message, ok := strings.Cut(raw, ":")
	if !ok {
		return &Flash{Category: "message", Message: raw}
	}
	return &Flash{Category: category, Message: message}
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
