package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-content-storefront/internal/application"
	"github.com/oksasatya/go-content-storefront/internal/interface/middleware"
	"github.com/oksasatya/go-content-storefront/pkg/helpers"
	"github.com/oksasatya/go-content-storefront/pkg/response"
)

// CatalogPath is where admin actions redirect to.
const CatalogPath = "/api/content"

type AdminHandler struct {
	Content        *app.ContentService
	Reset          *app.ResetService
	Cookies        *helpers.Manager
	Logger         *logrus.Logger
	MaxUploadBytes int64
}

func NewAdminHandler(content *app.ContentService, reset *app.ResetService, cookies *helpers.Manager, logger *logrus.Logger, maxUploadBytes int64) *AdminHandler {
	return &AdminHandler{Content: content, Reset: reset, Cookies: cookies, Logger: logger, MaxUploadBytes: maxUploadBytes}
}

type formField struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Accept   []string `json:"accept,omitempty"`
	Min      *int     `json:"min_length,omitempty"`
}

// CreateForm GET /api/admin/content-create
func (h *AdminHandler) CreateForm(c *gin.Context) {
	minName := 3
	fields := []formField{
		{Name: "name", Type: "text", Required: true, Min: &minName},
		{Name: "description", Type: "text", Required: true},
		{Name: "file", Type: "file", Required: true, Accept: []string{"pdf"}},
		{Name: "image", Type: "file", Required: true, Accept: []string{"jpg", "jpeg", "png", "svg"}},
		{Name: "price", Type: "number", Required: true},
	}
	response.Success(c, http.StatusOK, gin.H{"fields": fields, "enctype": "multipart/form-data"}, "ok", nil)
}

// Create POST /api/admin/content-create (multipart)
func (h *AdminHandler) Create(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}
	if _, err := c.MultipartForm(); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
			response.Error[any](c, http.StatusRequestEntityTooLarge, "upload too large", nil)
			return
		}
		response.Error[any](c, http.StatusBadRequest, "invalid form", nil)
		return
	}

	in := app.CreateContentInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       c.PostForm("price"),
		File:        formUpload(c, "file"),
		Image:       formUpload(c, "image"),
	}
	entry, err := h.Content.Create(c.Request.Context(), middleware.IdentityFrom(c), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.Header("X-Content-ID", entry.ID)
	h.Cookies.SetFlash(c, "success", "Content created")
	c.Redirect(http.StatusSeeOther, CatalogPath)
}

// Flush POST /api/admin/db-flush
func (h *AdminHandler) Flush(c *gin.Context) {
	if err := h.Reset.Reset(c.Request.Context(), middleware.IdentityFrom(c)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetFlash(c, "success", "Catalog reset")
	c.Redirect(http.StatusSeeOther, CatalogPath)
}

func formUpload(c *gin.Context, field string) *app.Upload {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil
	}
	return uploadFromHeader(fh)
}

func uploadFromHeader(fh *multipart.FileHeader) *app.Upload {
	return &app.Upload{
		Filename: fh.Filename,
		Open:     func() (io.ReadCloser, error) { return fh.Open() },
	}
}
