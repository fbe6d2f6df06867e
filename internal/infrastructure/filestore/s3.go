package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/oksasatya/go-content-storefront/internal/domain/repository"
)

type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PathStyle bool
}

// S3 stores areas as object prefixes of one bucket on any S3-compatible service.
type S3 struct {
	cl     *minio.Client
	bucket string
	region string
}

func NewS3(cfg S3Config) (*S3, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("s3 endpoint and bucket are required")
	}
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	if cfg.PathStyle {
		opts.BucketLookup = minio.BucketLookupPath
	}
	cl, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, err
	}
	return &S3{cl: cl, bucket: cfg.Bucket, region: cfg.Region}, nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

func (s *S3) Save(ctx context.Context, kind repository.FileKind, name string, r io.Reader) error {
	if err := repository.ValidateFilename(name); err != nil {
		return err
	}
	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := objectPath(kind, name)
	if _, err := s.cl.PutObject(ctx, s.bucket, key, r, -1, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *S3) Open(ctx context.Context, kind repository.FileKind, name string) (io.ReadCloser, error) {
	if err := repository.ValidateFilename(name); err != nil {
		return nil, err
	}
	key := objectPath(kind, name)
	// GetObject is lazy; stat first so a missing key surfaces here.
	if _, err := s.cl.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}
	obj, err := s.cl.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return obj, nil
}

// Delete succeeds for missing keys; S3 does not report them.
func (s *S3) Delete(ctx context.Context, kind repository.FileKind, name string) error {
	if err := repository.ValidateFilename(name); err != nil {
		return err
	}
	return s.cl.RemoveObject(ctx, s.bucket, objectPath(kind, name), minio.RemoveObjectOptions{})
}

func (s *S3) Purge(ctx context.Context, kind repository.FileKind) error {
	objects := s.cl.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: string(kind) + "/", Recursive: true})
	var errs []error
	for rerr := range s.cl.RemoveObjects(ctx, s.bucket, objects, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("delete %s: %w", rerr.ObjectName, rerr.Err))
	}
	return errors.Join(errs...)
}

// Init creates the bucket when it does not exist.
func (s *S3) Init(ctx context.Context) error {
	ok, err := s.cl.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if ok {
		return nil
	}
	return s.cl.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
}

var _ repository.FileStorage = (*S3)(nil)
