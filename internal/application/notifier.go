package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/student-manager/config"
	"github.com/oksasatya/student-manager/internal/domain/entity"
	"github.com/oksasatya/student-manager/pkg/mailer"
	tpl "github.com/oksasatya/student-manager/pkg/mailer/templates"
)

// Notifier queues an email job. *helpers.RabbitPublisher implements it.
type Notifier interface {
	Notify(ctx context.Context, job mailer.EmailJob) error
}

// Notifications sends account emails after a successful commit. Failures
// are logged and never fail the request.
type Notifications struct {
	Cfg      *config.Config
	Notifier Notifier
	Logger   *logrus.Logger
}

func (n *Notifications) enabled() bool {
	return n != nil && n.Notifier != nil && n.Cfg != nil && n.Cfg.MailSendEnabled
}

func (n *Notifications) send(ctx context.Context, to, template string, data map[string]any) {
	if !n.enabled() {
		return
	}
	// the request may already be finished; publishing gets its own deadline
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := n.Notifier.Notify(c, mailer.EmailJob{To: to, Template: template, Data: data}); err != nil {
		notifyFailures.Add(1)
		if n.Logger != nil {
			n.Logger.WithError(err).WithField("template", template).Warn("enqueue email failed")
		}
	}
}

func (n *Notifications) AccountCreated(ctx context.Context, pair *LinkedPair) {
	if !n.enabled() || pair == nil || pair.Identity == nil {
		return
	}
	details := map[string]string{}
	if pair.Profile != nil {
		details["Course"] = pair.Profile.Course
		details["Enrollment number"] = pair.Profile.EnrollmentNumber
	}
	n.send(ctx, pair.Identity.Email, tpl.AccountCreated,
		tpl.NewAccountCreatedData(n.Cfg, pair.Identity.Name, pair.Identity.Email, details, tpl.WithTime(time.Now())))
}

func (n *Notifications) PasswordChanged(ctx context.Context, i *entity.Identity) {
	if !n.enabled() || i == nil {
		return
	}
	n.send(ctx, i.Email, tpl.PasswordChanged,
		tpl.NewPasswordChangedData(n.Cfg, i.Name, i.Email, tpl.WithTime(time.Now())))
}

func (n *Notifications) AccountDeleted(ctx context.Context, i *entity.Identity) {
	if !n.enabled() || i == nil {
		return
	}
	n.send(ctx, i.Email, tpl.AccountDeleted,
		tpl.NewAccountDeletedData(n.Cfg, i.Name, i.Email, tpl.WithTime(time.Now())))
}
