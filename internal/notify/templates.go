package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// renderFunc produces the subject line and HTML body for one message.
type renderFunc func(Message) (subject, html string, err error)

// templates is the total mapping from event type to its renderer. Dispatching
// a type with no entry is a hard error for that dispatch, never a silent skip.
var templates = map[EventType]renderFunc{
	EventApplicationStatus: func(m Message) (string, string, error) {
		subject := fmt.Sprintf("Your application to %s was updated", meta(m, "postTitle", "a programme"))
		return render(subject, applicationStatusBody, m)
	},
	EventDocumentUpdated: func(m Message) (string, string, error) {
		return render("A document on your application was updated", documentUpdatedBody, m)
	},
	EventPaymentDeadline: func(m Message) (string, string, error) {
		return render("Payment deadline approaching", paymentDeadlineBody, m)
	},
	EventWishlistDeadline: func(m Message) (string, string, error) {
		subject := fmt.Sprintf("Deadline approaching: %s", meta(m, "postTitle", "a saved post"))
		return render(subject, wishlistDeadlineBody, m)
	},
	EventWelcome: func(m Message) (string, string, error) {
		return render("Welcome to EduMatch", welcomeBody, m)
	},
	EventSupportRequest: func(m Message) (string, string, error) {
		subject := fmt.Sprintf("Support request: %s", meta(m, "subject", "(no subject)"))
		return render(subject, supportRequestBody, m)
	},
	EventApplicationSubmitted: func(m Message) (string, string, error) {
		subject := fmt.Sprintf("Application received: %s", meta(m, "postTitle", "your application"))
		return render(subject, applicationSubmittedBody, m)
	},
}

// Render resolves the template for m's type and produces the email. An
// unmapped event type is a fatal error for the dispatch.
func Render(m Message) (subject, html string, err error) {
	fn, ok := templates[m.Type]
	if !ok {
		return "", "", fmt.Errorf("no email template mapped for notification type %q", m.Type)
	}
	return fn(m)
}

// render executes the shared layout with the given body template associated.
func render(subject string, body *template.Template, m Message) (string, string, error) {
	var buf bytes.Buffer
	if err := body.ExecuteTemplate(&buf, "layout", layoutData{Subject: subject, Message: m}); err != nil {
		return "", "", fmt.Errorf("render %s template: %w", m.Type, err)
	}
	return subject, buf.String(), nil
}

func meta(m Message, key, fallback string) string {
	if v := m.Meta[key]; v != "" {
		return v
	}
	return fallback
}

// ── Templates ──────────────────────────────────────────────────────────────

type layoutData struct {
	Subject string
	Message Message
}

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1a1a2e; margin: 0; padding: 24px;">
  <h2 style="color: #2b6cb0;">{{.Subject}}</h2>
  {{template "body" .Message}}
  <p style="color: #718096; font-size: 12px; margin-top: 32px;">
    You are receiving this email because of your EduMatch account activity.
  </p>
</body>
</html>`))

func bodyTemplate(text string) *template.Template {
	return template.Must(template.Must(layout.Clone()).New("body").Parse(text))
}

var (
	applicationStatusBody = bodyTemplate(`
  <p>The status of your application to <strong>{{index .Meta "postTitle"}}</strong>
  changed to <strong>{{index .Meta "status"}}</strong>.</p>
  <p>Sign in to review the details.</p>`)

	documentUpdatedBody = bodyTemplate(`
  <p>The document <strong>{{index .Meta "documentName"}}</strong> on your
  application was updated{{with index .Meta "note"}}: {{.}}{{end}}.</p>`)

	paymentDeadlineBody = bodyTemplate(`
  <p>The payment for <strong>{{index .Meta "postTitle"}}</strong> is due on
  <strong>{{index .Meta "deadline"}}</strong>.</p>`)

	wishlistDeadlineBody = bodyTemplate(`
  <p><strong>{{index .Meta "postTitle"}}</strong> on your wishlist closes on
  <strong>{{index .Meta "deadline"}}</strong> ({{index .Meta "daysLeft"}} days left).</p>`)

	welcomeBody = bodyTemplate(`
  <p>Welcome aboard! Your EduMatch account is ready.</p>
  <p>Start exploring programmes, scholarships and research positions.</p>`)

	supportRequestBody = bodyTemplate(`
  <p>From: <strong>{{index .Meta "name"}}</strong> ({{index .Meta "email"}})</p>
  <p>{{index .Meta "message"}}</p>`)

	applicationSubmittedBody = bodyTemplate(`
  <p>We received your application to <strong>{{index .Meta "postTitle"}}</strong>.</p>
  <p>The institution will review it and you will hear back here.</p>`)
)
