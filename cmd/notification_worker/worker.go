package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-appointment-scheduler/pkg/helpers"
	"github.com/oksasatya/go-appointment-scheduler/pkg/mailer"
)

type outcome int

const (
	outcomeAck outcome = iota
	outcomeDrop
	outcomeRetry
)

type worker struct {
	sender  mailer.Sender
	logger  *logrus.Logger
	timeout time.Duration
}

// handle renders and sends one queued email job. Undecodable or unrenderable
// jobs are dropped; delivery failures are retried.
func (w *worker) handle(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.logger.WithError(err).Warn("bad message")
		return outcomeDrop
	}
	if job.To == "" {
		w.logger.Warn("message without recipient")
		return outcomeDrop
	}

	subject, text, html, err := helpers.RenderEmailJob(&job)
	if err != nil {
		w.logger.WithError(err).WithField("template", job.Template).Warn("render failed")
		return outcomeDrop
	}

	c, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := w.sender.Send(c, job.To, subject, text, html); err != nil {
		w.logger.WithError(err).WithField("to", job.To).Warn("send failed")
		return outcomeRetry
	}
	w.logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return outcomeAck
}
