package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-content-storefront/pkg/mailer"
	"github.com/oksasatya/go-content-storefront/pkg/mailer/templates"
)

// Publisher puts a JSON message on the email queue. helpers.RabbitPublisher implements it.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Notifier queues catalog notification emails. Failures are logged, never returned.
type Notifier struct {
	Pub     Publisher
	To      string
	AppName string
	Logger  *logrus.Logger
}

func NewNotifier(pub Publisher, to, appName string, logger *logrus.Logger) *Notifier {
	return &Notifier{Pub: pub, To: to, AppName: appName, Logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, template string, data templates.NotificationData) {
	if n == nil || n.Pub == nil || n.To == "" {
		return
	}
	data.AppName = n.AppName
	if data.TimeAt.IsZero() {
		data.TimeAt = time.Now().UTC()
	}
	job := mailer.EmailJob{To: n.To, Template: template, Data: templates.ToMap(data)}

	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := n.Pub.PublishJSON(pctx, job); err != nil && n.Logger != nil {
		n.Logger.WithError(err).WithField("template", template).Warn("publish notification failed")
	}
}
