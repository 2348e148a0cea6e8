package email

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// subjects maps template names to the subject line used when sending.
var subjects = map[string]string{
	"renewal-report": "Your subscription renewal report",
}

// Notifier renders named templates and dispatches them through an
// EmailSender. It is the module's fire-and-forget mail side-channel:
// business flows call Dispatch and never depend on the delivery outcome.
type Notifier struct {
	sender EmailSender
	log    *slog.Logger
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithLogger sets the logger used to report background delivery failures.
func WithLogger(log *slog.Logger) NotifierOption {
	return func(n *Notifier) {
		if log != nil {
			n.log = log
		}
	}
}

// NewNotifier creates a Notifier over the given sender.
// Panics on a nil sender to fail fast during initialization.
func NewNotifier(sender EmailSender, opts ...NotifierOption) *Notifier {
	if sender == nil {
		panic("email: EmailSender is required")
	}
	n := &Notifier{
		sender: sender,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// RenderAndSend renders the named template with data and sends the result.
func (n *Notifier) RenderAndSend(ctx context.Context, sendTo, templateName string, data any) error {
	tpl := templates.Lookup(templateName + ".html")
	if tpl == nil {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}

	var sb strings.Builder
	if err := tpl.Execute(&sb, data); err != nil {
		return errors.Join(ErrTemplateRendering, err)
	}

	subject, ok := subjects[templateName]
	if !ok {
		subject = templateName
	}

	return n.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   sendTo,
		Subject:  subject,
		BodyHTML: sb.String(),
		Tag:      templateName,
	})
}

// Dispatch sends the rendered template in the background. Failures are
// logged, never returned; a background context detaches delivery from the
// request that triggered it.
func (n *Notifier) Dispatch(sendTo, templateName string, data any) {
	go func() {
		if err := n.RenderAndSend(context.Background(), sendTo, templateName, data); err != nil {
			n.log.Error("background email dispatch failed",
				slog.String("template", templateName),
				slog.String("to", sendTo),
				slog.String("error", err.Error()),
			)
		}
	}()
}
