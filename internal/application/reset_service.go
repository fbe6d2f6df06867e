package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/go-content-storefront/internal/domain/repository"
	"github.com/oksasatya/go-content-storefront/pkg/mailer/templates"
)

// ResetService wipes the catalog back to an empty state.
type ResetService struct {
	Content  repo.ContentRepository
	Orders   repo.OrderRepository
	Users    repo.UserRepository
	Files    repo.FileStorage
	Index    *ContentIndex
	Notifier *Notifier
	Metrics  Recorder
	Logger   *logrus.Logger
}

func NewResetService(content repo.ContentRepository, orders repo.OrderRepository, users repo.UserRepository, files repo.FileStorage, index *ContentIndex, notifier *Notifier, logger *logrus.Logger) *ResetService {
	return &ResetService{Content: content, Orders: orders, Users: users, Files: files, Index: index, Notifier: notifier, Logger: logger}
}

// Reset runs every step even when earlier ones fail, and always finishes by
// recreating the storage areas. Failed steps are reported in a *ResetError.
func (s *ResetService) Reset(ctx context.Context, actor string) error {
	rerr := &ResetError{}
	step := func(name string, fn func(context.Context) error) {
		if err := fn(ctx); err != nil {
			rerr.Steps = append(rerr.Steps, name)
			rerr.Errs = append(rerr.Errs, err)
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("step", name).Error("catalog reset step failed")
			}
		}
	}

	step("drop content", s.Content.DeleteAll)
	step("drop orders", s.Orders.DeleteAll)
	step("clear libraries", s.Users.ClearLibraries)
	for _, kind := range repo.FileKinds {
		step("purge "+string(kind), func(ctx context.Context) error { return s.Files.Purge(ctx, kind) })
	}
	step("drop search index", s.Index.Drop)
	step("init storage", s.Files.Init)

	s.Notifier.Notify(ctx, templates.CatalogReset, templates.NotificationData{
		Actor:    actor,
		TimeAt:   time.Now().UTC(),
		Failures: rerr.Steps,
	})
	if s.Metrics != nil {
		s.Metrics.RecordReset(len(rerr.Steps))
	}

	if len(rerr.Steps) > 0 {
		return rerr
	}
	if s.Logger != nil {
		s.Logger.WithField("identity", actor).Info("catalog reset")
	}
	return nil
}
