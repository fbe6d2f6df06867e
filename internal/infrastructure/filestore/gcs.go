package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"github.com/oksasatya/go-content-storefront/internal/domain/repository"
	"github.com/oksasatya/go-content-storefront/pkg/helpers"
)

// GCS keeps each area under an object prefix of one bucket: content/<name>, static/<name>.
type GCS struct {
	client *storage.Client
	bucket string
}

func NewGCS(client *storage.Client, bucket string) (*GCS, error) {
	if client == nil || bucket == "" {
		return nil, errors.New("gcs not configured")
	}
	return &GCS{client: client, bucket: bucket}, nil
}

func objectPath(kind repository.FileKind, name string) string {
	return string(kind) + "/" + name
}

func (g *GCS) Save(ctx context.Context, kind repository.FileKind, name string, r io.Reader) error {
	if err := repository.ValidateFilename(name); err != nil {
		return err
	}
	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, err := helpers.UploadObject(ctx, g.client, g.bucket, objectPath(kind, name), contentType, r); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
			return fmt.Errorf("%s: %w", objectPath(kind, name), repository.ErrExists)
		}
		return fmt.Errorf("upload %s: %w", objectPath(kind, name), err)
	}
	return nil
}

func (g *GCS) Open(ctx context.Context, kind repository.FileKind, name string) (io.ReadCloser, error) {
	if err := repository.ValidateFilename(name); err != nil {
		return nil, err
	}
	rc, err := g.client.Bucket(g.bucket).Object(objectPath(kind, name)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", objectPath(kind, name), err)
	}
	return rc, nil
}

func (g *GCS) Delete(ctx context.Context, kind repository.FileKind, name string) error {
	if err := repository.ValidateFilename(name); err != nil {
		return err
	}
	err := g.client.Bucket(g.bucket).Object(objectPath(kind, name)).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return repository.ErrNotFound
	}
	return err
}

// Purge deletes every object under the area prefix and keeps going past
// individual failures.
func (g *GCS) Purge(ctx context.Context, kind repository.FileKind) error {
	var errs []error
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{Prefix: string(kind) + "/"})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			errs = append(errs, err)
			break
		}
		if err := g.client.Bucket(g.bucket).Object(attrs.Name).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			errs = append(errs, fmt.Errorf("delete %s: %w", attrs.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Init is a no-op: object prefixes need no creation.
func (g *GCS) Init(context.Context) error { return nil }

var _ repository.FileStorage = (*GCS)(nil)
