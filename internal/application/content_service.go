package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-content-storefront/internal/domain/entity"
	repo "github.com/oksasatya/go-content-storefront/internal/domain/repository"
	"github.com/oksasatya/go-content-storefront/pkg/helpers"
	"github.com/oksasatya/go-content-storefront/pkg/mailer/templates"
	"github.com/oksasatya/go-content-storefront/pkg/validation"
)

// Upload is one file of a multipart form.
type Upload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// CreateContentInput is the admin content form.
type CreateContentInput struct {
	Name        string
	Description string
	Price       string
	File        *Upload
	Image       *Upload
}

// contentForm is what the validator sees of CreateContentInput.
type contentForm struct {
	Name        string `json:"name" validate:"required,min=3"`
	Description string `json:"description" validate:"required"`
	File        string `json:"file" validate:"required,fileext=pdf"`
	Image       string `json:"image" validate:"required,fileext=jpg jpeg png svg"`
	Price       string `json:"price" validate:"required,numeric"`
}

// Delivery is an opened file ready to stream. The caller closes Body.
type Delivery struct {
	Entry       *entity.Content
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

type ContentService struct {
	Content  repo.ContentRepository
	Files    repo.FileStorage
	Access   *AccessControl
	Index    *ContentIndex
	Notifier *Notifier
	Metrics  Recorder
	Validate *validator.Validate
	Logger   *logrus.Logger

	Now      func() time.Time
	NewToken func() string
}

func NewContentService(content repo.ContentRepository, files repo.FileStorage, access *AccessControl, index *ContentIndex, notifier *Notifier, logger *logrus.Logger) *ContentService {
	return &ContentService{
		Content:  content,
		Files:    files,
		Access:   access,
		Index:    index,
		Notifier: notifier,
		Validate: validation.New(),
		Logger:   logger,
		Now:      func() time.Time { return time.Now().UTC() },
		NewToken: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:8] },
	}
}

func (s *ContentService) List(ctx context.Context) ([]*entity.Content, error) {
	return s.Content.List(ctx)
}

// Get returns the entry metadata. No ownership check is made.
func (s *ContentService) Get(ctx context.Context, id string) (*entity.Content, error) {
	c, err := s.Content.Get(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return c, err
}

// Search returns entries matching q. The search index is used when it is
// available, otherwise name and description are matched case-insensitively.
func (s *ContentService) Search(ctx context.Context, q string, size int) ([]*entity.Content, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.List(ctx)
	}
	ids, err := s.Index.Search(ctx, q, size)
	if err == nil {
		out := make([]*entity.Content, 0, len(ids))
		for _, id := range ids {
			c, gErr := s.Content.Get(ctx, id)
			if errors.Is(gErr, repo.ErrNotFound) {
				continue
			}
			if gErr != nil {
				return nil, gErr
			}
			out = append(out, c)
		}
		return out, nil
	}
	if !errors.Is(err, ErrSearchDisabled) && s.Logger != nil {
		s.Logger.WithError(err).Warn("search index unavailable, falling back to scan")
	}

	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(q)
	limit := searchSize(size)
	out := make([]*entity.Content, 0)
	for _, c := range all {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(strings.ToLower(c.Description), needle) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Create validates the form, stores both files and inserts the entry. On a
// *ValidationError nothing is stored.
func (s *ContentService) Create(ctx context.Context, actor string, in CreateContentInput) (*entity.Content, error) {
	price, fields := s.validate(in)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	id := entity.NameToID(in.Name)
	exists, err := s.Content.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check content id: %w", err)
	}
	if exists {
		return nil, &ValidationError{Fields: map[string]string{"name": MsgNameTaken}}
	}

	token := s.NewToken()
	fileName := storedFilename(token, in.File.Filename)
	imageName := storedFilename(token, in.Image.Filename)

	if err := s.save(ctx, repo.KindContent, fileName, in.File); err != nil {
		return nil, err
	}
	if err := s.save(ctx, repo.KindStatic, imageName, in.Image); err != nil {
		s.discard(ctx, repo.KindContent, fileName)
		return nil, err
	}

	entry := &entity.Content{
		ID:           id,
		Name:         in.Name,
		Description:  in.Description,
		Price:        price,
		Paywalled:    entity.IsPaywalled(price),
		Filename:     fileName,
		Image:        imageName,
		PreviewImage: imageName,
		CreatedBy:    actor,
		CreatedAt:    s.Now(),
	}
	ok, err := s.Content.Create(ctx, entry)
	if err != nil || !ok {
		s.discard(ctx, repo.KindContent, fileName)
		s.discard(ctx, repo.KindStatic, imageName)
		if err != nil {
			return nil, fmt.Errorf("insert content: %w", err)
		}
		return nil, &ValidationError{Fields: map[string]string{"name": MsgNameTaken}}
	}

	if err := s.Index.Put(ctx, entry); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("content_id", id).Warn("index content failed")
	}
	s.Notifier.Notify(ctx, templates.ContentCreated, templates.NotificationData{
		Actor:     actor,
		TimeAt:    entry.CreatedAt,
		ContentID: entry.ID,
		Name:      entry.Name,
		Price:     entry.Price,
		Paywalled: entry.Paywalled,
	})
	if s.Metrics != nil {
		s.Metrics.RecordContentCreated(entry.Paywalled)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"content_id": id, "identity": actor, "paywalled": entry.Paywalled}).Info("content created")
	}
	return entry, nil
}

func (s *ContentService) validate(in CreateContentInput) (float64, map[string]string) {
	form := contentForm{
		Name:        in.Name,
		Description: in.Description,
		Price:       strings.TrimSpace(in.Price),
	}
	if in.File != nil {
		form.File = in.File.Filename
	}
	if in.Image != nil {
		form.Image = in.Image.Filename
	}

	fields := map[string]string{}
	if err := s.Validate.Struct(form); err != nil {
		for k, v := range validation.ToDetails(err) {
			fields[k] = v
		}
	}

	var price float64
	if _, bad := fields["price"]; !bad {
		p, err := strconv.ParseFloat(form.Price, 64)
		switch {
		case err != nil:
			fields["price"] = "must be a valid number"
		case p < 0:
			fields["price"] = "must be greater than or equal to 0"
		default:
			price = p
		}
	}
	return price, fields
}

func (s *ContentService) save(ctx context.Context, kind repo.FileKind, name string, up *Upload) error {
	r, err := up.Open()
	if err != nil {
		return fmt.Errorf("open upload %s: %w", up.Filename, err)
	}
	defer func() { _ = r.Close() }()
	if err := s.Files.Save(ctx, kind, name, r); err != nil {
		return fmt.Errorf("store %s file: %w", kind, err)
	}
	return nil
}

func (s *ContentService) discard(ctx context.Context, kind repo.FileKind, name string) {
	if err := s.Files.Delete(ctx, kind, name); err != nil && !errors.Is(err, repo.ErrNotFound) && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", name).Warn("remove orphaned upload failed")
	}
}

// Deliver opens the primary file of contentID for identity.
func (s *ContentService) Deliver(ctx context.Context, identity, contentID string) (*Delivery, error) {
	d, err := s.deliver(ctx, identity, contentID)
	if s.Metrics != nil {
		switch {
		case err == nil:
			s.Metrics.RecordDelivery(DeliveryServed)
		case errors.Is(err, ErrAccessDenied):
			s.Metrics.RecordDelivery(DeliveryDenied)
		case errors.Is(err, ErrNotFound):
			s.Metrics.RecordDelivery(DeliveryNotFound)
		}
	}
	return d, err
}

func (s *ContentService) deliver(ctx context.Context, identity, contentID string) (*Delivery, error) {
	entry, err := s.Get(ctx, contentID)
	if err != nil {
		return nil, err
	}
	ok, err := s.Access.CanAccessContent(ctx, identity, entry)
	if err != nil {
		return nil, fmt.Errorf("access check: %w", err)
	}
	if !ok {
		return nil, ErrAccessDenied
	}
	body, err := s.Files.Open(ctx, repo.KindContent, entry.Filename)
	if errors.Is(err, repo.ErrNotFound) || errors.Is(err, repo.ErrInvalidFilename) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open content file: %w", err)
	}
	return &Delivery{Entry: entry, Filename: entry.Filename, ContentType: contentType(entry.Filename), Body: body}, nil
}

// OpenPreview opens a public preview image by stored name.
func (s *ContentService) OpenPreview(ctx context.Context, name string) (*Delivery, error) {
	body, err := s.Files.Open(ctx, repo.KindStatic, name)
	if errors.Is(err, repo.ErrNotFound) || errors.Is(err, repo.ErrInvalidFilename) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open preview: %w", err)
	}
	return &Delivery{Filename: name, ContentType: contentType(name), Body: body}, nil
}

func contentType(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// storedFilename builds "<token>-<sanitized stem>.<ext>" from an upload name.
func storedFilename(token, original string) string {
	base := original
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	ext := helpers.FileExt(base)
	stem := base
	if ext != "" {
		stem = base[:strings.LastIndexByte(base, '.')]
	}
	stem = helpers.SecureFilename(stem)
	if stem == "" {
		stem = "file"
	}
	if ext == "" {
		return token + "-" + stem
	}
	return token + "-" + stem + "." + ext
}
