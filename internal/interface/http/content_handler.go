package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-content-storefront/internal/application"
	"github.com/oksasatya/go-content-storefront/internal/domain/entity"
	"github.com/oksasatya/go-content-storefront/internal/interface/middleware"
	"github.com/oksasatya/go-content-storefront/pkg/helpers"
	"github.com/oksasatya/go-content-storefront/pkg/response"
)

type ContentHandler struct {
	Svc     *app.ContentService
	Access  *app.AccessControl
	Cookies *helpers.Manager
	Logger  *logrus.Logger
}

func NewContentHandler(svc *app.ContentService, access *app.AccessControl, cookies *helpers.Manager, logger *logrus.Logger) *ContentHandler {
	return &ContentHandler{Svc: svc, Access: access, Cookies: cookies, Logger: logger}
}

// catalogView is the listing plus what the caller needs to render it.
type catalogView struct {
	Content   []*entity.Content `json:"content"`
	Identity  string            `json:"identity"`
	MyLibrary []string          `json:"my_library"`
	Admin     bool              `json:"admin"`
	Flash     *helpers.Flash    `json:"flash,omitempty"`
}

func (h *ContentHandler) view(c *gin.Context, items []*entity.Content) (*catalogView, error) {
	identity := middleware.IdentityFrom(c)
	lib, err := h.Access.Library(c.Request.Context(), identity)
	if err != nil {
		return nil, err
	}
	return &catalogView{
		Content:   items,
		Identity:  identity,
		MyLibrary: lib,
		Admin:     h.Access.IsAdmin(identity),
		Flash:     h.Cookies.PopFlash(c),
	}, nil
}

// List GET /api/content
func (h *ContentHandler) List(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	v, err := h.view(c, items)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, v, "ok", gin.H{"count": len(items)})
}

// Search GET /api/content/search?q=&size=
func (h *ContentHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	items, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	v, err := h.view(c, items)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, v, "ok", gin.H{"count": len(items), "q": q})
}

// Get GET /api/content/:content_id
func (h *ContentHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	entry, err := h.Svc.Get(ctx, c.Param("content_id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	canAccess, err := h.Access.CanAccessContent(ctx, middleware.IdentityFrom(c), entry)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, entry, "ok", gin.H{"can_access": canAccess})
}

// File GET /api/content-file/:content_id
func (h *ContentHandler) File(c *gin.Context) {
	d, err := h.Svc.Deliver(c.Request.Context(), middleware.IdentityFrom(c), c.Param("content_id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = d.Body.Close() }()
	c.DataFromReader(http.StatusOK, -1, d.ContentType, d.Body, map[string]string{
		"Content-Disposition": `inline; filename="` + d.Filename + `"`,
	})
}

// Static GET /api/static/:filename
func (h *ContentHandler) Static(c *gin.Context) {
	d, err := h.Svc.OpenPreview(c.Request.Context(), c.Param("filename"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = d.Body.Close() }()
	c.DataFromReader(http.StatusOK, -1, d.ContentType, d.Body, map[string]string{
		"Cache-Control": "public, max-age=3600",
	})
}
