package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-content-storefront/pkg/mailer"
	"github.com/oksasatya/go-content-storefront/pkg/mailer/templates"
)

type sent struct{ to, subject, text, html string }

type fakeSender struct {
	mails []sent
	err   error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.mails = append(f.mails, sent{to, subject, text, html})
	return nil
}

func newWorker(s sender) *worker {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &worker{sender: s, logger: l}
}

func jobBytes(t *testing.T, job mailer.EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestHandle_RendersTemplate(t *testing.T) {
	s := &fakeSender{}
	job := mailer.EmailJob{To: "ops@example.com", Template: templates.ContentCreated, Data: templates.ToMap(templates.NotificationData{
		AppName:   "storefront",
		Actor:     "KevinIsom",
		TimeAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		ContentID: "deep-dive",
		Name:      "Deep Dive",
		Price:     5,
		Paywalled: true,
	})}

	assert.Equal(t, ack, newWorker(s).handle(context.Background(), jobBytes(t, job)))
	require.Len(t, s.mails, 1)
	assert.Equal(t, "ops@example.com", s.mails[0].to)
	assert.Contains(t, s.mails[0].subject, "Deep Dive")
	assert.Contains(t, s.mails[0].html, "deep-dive")
}

func TestHandle_PlainJob(t *testing.T) {
	s := &fakeSender{}
	job := mailer.EmailJob{To: "a@example.com", Subject: "hi", Text: "body"}

	assert.Equal(t, ack, newWorker(s).handle(context.Background(), jobBytes(t, job)))
	assert.Equal(t, []sent{{"a@example.com", "hi", "body", ""}}, s.mails)
}

func TestHandle_Outcomes(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, drop, newWorker(&fakeSender{}).handle(ctx, []byte("{not json")))
	assert.Equal(t, drop, newWorker(&fakeSender{}).handle(ctx, jobBytes(t, mailer.EmailJob{Subject: "no one"})))
	assert.Equal(t, drop, newWorker(&fakeSender{}).handle(ctx, jobBytes(t, mailer.EmailJob{To: "a@example.com", Template: "missing"})))

	failing := &fakeSender{err: errors.New("mailgun down")}
	assert.Equal(t, requeue, newWorker(failing).handle(ctx, jobBytes(t, mailer.EmailJob{To: "a@example.com", Text: "x"})))
}
