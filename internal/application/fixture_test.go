package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	repo "github.com/oksasatya/go-content-storefront/internal/domain/repository"
	"github.com/oksasatya/go-content-storefront/internal/infrastructure/filestore"
	"github.com/oksasatya/go-content-storefront/internal/infrastructure/kvrepo"
	"github.com/oksasatya/go-content-storefront/internal/infrastructure/memory"
)

const testAdmin = "KevinIsom"

type fakePublisher struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, body)
	return p.err
}

type fixture struct {
	content *kvrepo.ContentRepository
	users   *kvrepo.UserRepository
	orders  *kvrepo.OrderRepository
	files   repo.FileStorage
	access  *AccessControl
	pub     *fakePublisher
	svc     *ContentService
	reset   *ResetService
	grant   *GrantService
	dirs    [2]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	contentDir, staticDir := t.TempDir()+"/content", t.TempDir()+"/static"
	files, err := filestore.NewLocal(contentDir, staticDir)
	require.NoError(t, err)

	f := &fixture{
		content: kvrepo.NewContentRepository(store),
		users:   kvrepo.NewUserRepository(store),
		orders:  kvrepo.NewOrderRepository(store),
		files:   files,
		pub:     &fakePublisher{},
		dirs:    [2]string{contentDir, staticDir},
	}
	f.access = NewAccessControl([]string{testAdmin}, f.users)
	notifier := NewNotifier(f.pub, "ops@example.com", "storefront", nil)
	f.svc = NewContentService(f.content, f.files, f.access, nil, notifier, nil)
	f.svc.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	// first upload is t0k3n, later ones t0k3n2, t0k3n3 so saves never collide
	tokens := 0
	f.svc.NewToken = func() string {
		tokens++
		if tokens == 1 {
			return "t0k3n"
		}
		return fmt.Sprintf("t0k3n%d", tokens)
	}
	f.reset = NewResetService(f.content, f.orders, f.users, f.files, nil, notifier, nil)
	f.grant = NewGrantService(f.content, f.orders, f.users, nil)
	return f
}

func upload(name, body string) *Upload {
	return &Upload{Filename: name, Open: func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(body)), nil
	}}
}

func validInput(name, price string) CreateContentInput {
	return CreateContentInput{
		Name:        name,
		Description: "A description",
		Price:       price,
		File:        upload("valid.pdf", "%PDF-1.4 body"),
		Image:       upload("cover.png", "png bytes"),
	}
}

// failingFiles wraps a FileStorage and fails the named operations.
type failingFiles struct {
	repo.FileStorage
	purge map[repo.FileKind]bool
	save  map[repo.FileKind]bool
	inits int
}

var errDisk = errors.New("disk on fire")

func (f *failingFiles) Purge(ctx context.Context, kind repo.FileKind) error {
	if f.purge[kind] {
		return errDisk
	}
	return f.FileStorage.Purge(ctx, kind)
}

func (f *failingFiles) Save(ctx context.Context, kind repo.FileKind, name string, r io.Reader) error {
	if f.save[kind] {
		return errDisk
	}
	return f.FileStorage.Save(ctx, kind, name, r)
}

func (f *failingFiles) Init(ctx context.Context) error {
	f.inits++
	return f.FileStorage.Init(ctx)
}
