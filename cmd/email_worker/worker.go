package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-content-storefront/pkg/mailer"
	"github.com/oksasatya/go-content-storefront/pkg/mailer/templates"
)

type outcome int

const (
	ack outcome = iota
	requeue
	drop
)

type sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

type worker struct {
	sender sender
	logger *logrus.Logger
}

// handle renders and sends one queued job. Bad payloads are dropped; only
// send failures are retried.
func (w *worker) handle(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.logger.WithError(err).Warn("bad message")
		return drop
	}
	if job.To == "" {
		w.logger.Warn("message without recipient")
		return drop
	}
	log := w.logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template})

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		data, err := templates.FromMap(job.Data)
		if err != nil {
			log.WithError(err).Warn("bad template data")
			return drop
		}
		s, t, h, err := templates.Render(job.Template, data)
		if err != nil {
			log.WithError(err).Warn("render failed")
			return drop
		}
		subject, text, html = s, t, h
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := w.sender.Send(c, job.To, subject, text, html); err != nil {
		log.WithError(err).Error("send failed")
		return requeue
	}
	log.Info("email sent")
	return ack
}
