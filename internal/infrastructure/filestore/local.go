package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/oksasatya/go-content-storefront/internal/domain/repository"
)

// Local stores each area in its own directory. Every access goes through an
// os.Root opened on that directory, so a name can never resolve outside it.
type Local struct {
	dirs map[repository.FileKind]string
}

// NewLocal creates the area directories if needed.
func NewLocal(contentDir, staticDir string) (*Local, error) {
	if contentDir == "" || staticDir == "" {
		return nil, errors.New("content and static directories are required")
	}
	l := &Local{dirs: map[repository.FileKind]string{
		repository.KindContent: contentDir,
		repository.KindStatic:  staticDir,
	}}
	if err := l.Init(context.Background()); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Local) dir(kind repository.FileKind) (string, error) {
	d, ok := l.dirs[kind]
	if !ok {
		return "", fmt.Errorf("unknown storage area %q", kind)
	}
	return d, nil
}

func (l *Local) root(kind repository.FileKind) (*os.Root, error) {
	d, err := l.dir(kind)
	if err != nil {
		return nil, err
	}
	return os.OpenRoot(d)
}

func (l *Local) Save(_ context.Context, kind repository.FileKind, name string, r io.Reader) error {
	if err := repository.ValidateFilename(name); err != nil {
		return err
	}
	root, err := l.root(kind)
	if err != nil {
		return fmt.Errorf("open %s area: %w", kind, err)
	}
	defer root.Close()

	// O_EXCL: an existing upload is never replaced
	f, err := root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%s/%s: %w", kind, name, repository.ErrExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = root.Remove(name)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = root.Remove(name)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (l *Local) Open(_ context.Context, kind repository.FileKind, name string) (io.ReadCloser, error) {
	if err := repository.ValidateFilename(name); err != nil {
		return nil, err
	}
	root, err := l.root(kind)
	if err != nil {
		return nil, fmt.Errorf("open %s area: %w", kind, err)
	}
	defer root.Close()

	f, err := root.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		_ = f.Close()
		return nil, repository.ErrNotFound
	}
	return f, nil
}

func (l *Local) Delete(_ context.Context, kind repository.FileKind, name string) error {
	if err := repository.ValidateFilename(name); err != nil {
		return err
	}
	root, err := l.root(kind)
	if err != nil {
		return fmt.Errorf("open %s area: %w", kind, err)
	}
	defer root.Close()

	if err := root.Remove(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (l *Local) Purge(_ context.Context, kind repository.FileKind) error {
	d, err := l.dir(kind)
	if err != nil {
		return err
	}
	return os.RemoveAll(d)
}

func (l *Local) Init(_ context.Context) error {
	for _, kind := range repository.FileKinds {
		if err := os.MkdirAll(l.dirs[kind], 0o755); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", kind, err)
		}
	}
	return nil
}

var _ repository.FileStorage = (*Local)(nil)
