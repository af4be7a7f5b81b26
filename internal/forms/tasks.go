package forms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/justsurfingit/jobs-in-germany/internal/auth"
	"github.com/justsurfingit/jobs-in-germany/internal/formflow"
	"github.com/justsurfingit/jobs-in-germany/internal/services"
)

// Task names used in forms.yaml.
const (
	TaskSignIn       = "signin"
	TaskUploadResume = "upload_resume"
	TaskChargeCard   = "charge_card"
)

// ErrSignInRequired is returned by tasks of protected forms when the
// context carries no user.
var ErrSignInRequired = errors.New("please sign in first")

// Collaborators are the services behind the form tasks.
type Collaborators struct {
	Auth     services.Authenticator
	Docs     services.DocumentStore
	Payments services.PaymentProcessor
	Notifier services.Notifier
	Logger   *slog.Logger
}

// Build binds each definition to its task. timeout bounds every
// collaborator call; zero means no bound.
func Build(defs []Definition, c Collaborators, timeout time.Duration) ([]*formflow.Form, error) {
	out := make([]*formflow.Form, 0, len(defs))
	for _, d := range defs {
		task, err := c.task(d.Task)
		if err != nil {
			return nil, fmt.Errorf("form %s: %w", d.Name, err)
		}
		out = append(out, &formflow.Form{
			Name:           d.Name,
			Title:          d.Title,
			Protected:      d.Protected,
			SuccessRoute:   d.SuccessRoute,
			SuccessMessage: d.SuccessMessage,
			Validate:       d.Validator(),
			Submit:         task,
			Timeout:        timeout,
		})
	}
	return out, nil
}

func (c Collaborators) task(name string) (formflow.Task, error) {
	switch name {
	case TaskSignIn:
		if c.Auth == nil {
			return nil, errors.New("no authenticator configured")
		}
		return c.signIn, nil
	case TaskUploadResume:
		if c.Docs == nil {
			return nil, errors.New("no document store configured")
		}
		return c.uploadResume, nil
	case TaskChargeCard:
		if c.Payments == nil {
			return nil, errors.New("no payment processor configured")
		}
		return c.chargeCard, nil
	default:
		return nil, fmt.Errorf("unknown task %q", name)
	}
}

func (c Collaborators) signIn(ctx context.Context, fields formflow.Fields) (any, error) {
	return c.Auth.SignIn(ctx, fields.Text("email"), fields.Text("password"))
}

func (c Collaborators) uploadResume(ctx context.Context, fields formflow.Fields) (any, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, ErrSignInRequired
	}
	file := fields.File("resume")
	resume, err := c.Docs.Upload(ctx, user.UserID, file)
	if err != nil {
		return nil, err
	}
	c.notify(ctx, services.Notification{
		To:      user.Email,
		Subject: "We received your CV",
		Body: fmt.Sprintf("Hello %s,\n\nthanks for uploading %s (%s). Our recruiters will be in touch.\n",
			user.Name, resume.FileName, humanize.Bytes(uint64(resume.SizeBytes))),
	})
	return resume, nil
}

func (c Collaborators) chargeCard(ctx context.Context, fields formflow.Fields) (any, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, ErrSignInRequired
	}
	payment, err := c.Payments.Charge(ctx, user.UserID, services.CardFields{
		Name:   fields.Text("name"),
		Number: fields.Text("card_number"),
		Expiry: fields.Text("expiry"),
		CVC:    fields.Text("cvc"),
		Course: fields.Text("course"),
	})
	if err != nil {
		return nil, err
	}
	c.notify(ctx, services.Notification{
		To:      user.Email,
		Subject: "Payment confirmation " + payment.Reference,
		Body: fmt.Sprintf("Hello %s,\n\nwe received your payment of %s %s for %s (card ending %s).\n",
			user.Name, formatCents(payment.AmountCents), payment.Currency, payment.Course.Title, payment.CardLast4),
	})
	return payment, nil
}

// notify never changes the outcome of a submission.
func (c Collaborators) notify(ctx context.Context, n services.Notification) {
	if c.Notifier == nil || n.To == "" {
		return
	}
	if err := c.Notifier.Notify(ctx, n); err != nil && c.Logger != nil {
		c.Logger.Warn("notification failed", "to", n.To, "error", err)
	}
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%s.%02d", humanize.Comma(cents/100), cents%100)
}
