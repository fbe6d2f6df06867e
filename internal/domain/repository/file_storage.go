package repository

import (
	"context"
	"errors"
	"io"
	"strings"
)

// FileKind selects one of the storage areas.
type FileKind string

const (
	// KindContent holds the paywalled primary files.
	KindContent FileKind = "content"
	// KindStatic holds the public preview images.
	KindStatic FileKind = "static"
)

// FileKinds lists every storage area.
var FileKinds = []FileKind{KindContent, KindStatic}

// ErrExists is returned by Save when the name is already taken in its area.
var ErrExists = errors.New("file already exists")

// ErrInvalidFilename is returned for names that could leave their storage area.
var ErrInvalidFilename = errors.New("invalid filename")

// FileStorage persists uploaded files by area and flat name.
type FileStorage interface {
	Save(ctx context.Context, kind FileKind, name string, r io.Reader) error
	Open(ctx context.Context, kind FileKind, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, kind FileKind, name string) error
	// Purge removes the whole area.
	Purge(ctx context.Context, kind FileKind) error
	// Init creates every area that does not exist yet.
	Init(ctx context.Context) error
}

// ValidateFilename accepts only flat names: no separators, no dot segments.
func ValidateFilename(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") ||
		strings.ContainsRune(name, 0) {
		return ErrInvalidFilename
	}
	return nil
}
