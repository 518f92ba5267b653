package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	tpl "github.com/oksasatya/student-manager/pkg/mailer/templates"
)

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack     Outcome = iota // sent, remove from queue
	Drop                   // unusable message, nack without requeue
	Requeue                // transient send failure, nack with requeue
)

var errEmptyJob = errors.New("job has no recipient")

// Worker renders queued EmailJobs and hands them to a Sender.
type Worker struct {
	Sender      Sender
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

func NewWorker(sender Sender, logger *logrus.Logger) *Worker {
	return &Worker{Sender: sender, Logger: logger, SendTimeout: 15 * time.Second}
}

// Prepare fills subject and bodies from the named template when the job
// carries one.
func Prepare(job *EmailJob) error {
	if job.To == "" {
		return errEmptyJob
	}
	if !job.IsTemplated() {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return errors.New("job without template needs a subject and a body")
		}
		return nil
	}
	if !tpl.Known(job.Template) {
		return fmt.Errorf("unknown template %q", job.Template)
	}
	s, t, h, err := tpl.Render(job.Template, job.Data)
	if err != nil {
		return fmt.Errorf("render %s: %w", job.Template, err)
	}
	job.Subject, job.Text, job.HTML = s, t, h
	return nil
}

// Handle processes one raw queue message.
func (w *Worker) Handle(ctx context.Context, body []byte) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("bad email message")
		return Drop
	}
	if err := Prepare(&job); err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Warn("email job rejected")
		return Drop
	}

	c, cancel := context.WithTimeout(ctx, w.SendTimeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, job.Subject, job.Text, job.HTML); err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Error("send failed")
		return Requeue
	}
	w.Logger.WithField("template", job.Template).Info("email sent")
	return Ack
}
