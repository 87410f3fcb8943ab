package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Maniblazestarboy/api-linkado/pkg/mailer/templates"
)

// ErrBadJob marks a job that can never be delivered and must not be requeued.
var ErrBadJob = errors.New("bad email job")

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Worker renders queued EmailJobs and hands them to a Sender.
type Worker struct {
	Sender      Sender
	SendTimeout time.Duration
}

func NewWorker(s Sender) *Worker {
	return &Worker{Sender: s, SendTimeout: 15 * time.Second}
}

// Handle processes one queue message. Errors wrapping ErrBadJob are permanent;
// any other error is a delivery failure worth retrying.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrBadJob, err)
	}
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrBadJob)
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := templates.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %v", ErrBadJob, job.Template, err)
		}
		subject, text, html = s, t, h
	}
	if subject == "" || (text == "" && html == "") {
		return fmt.Errorf("%w: empty message", ErrBadJob)
	}

	c, cancel := context.WithTimeout(ctx, w.SendTimeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		return fmt.Errorf("send to %s: %w", job.To, err)
	}
	return nil
}
