package signin

import (
	"context"

	"talentflow-backend/internal/shared/telemetry"
)

// Mailer delivers a sign-in link to a candidate. Production wires an email
// provider; development logs the link instead.
type Mailer interface {
	SendLink(ctx context.Context, email, link string) error
}

// LogMailer writes the link to the structured log. It is the default when no
// email provider is configured.
type LogMailer struct{}

func (LogMailer) SendLink(ctx context.Context, email, link string) error {
	_ = ctx
	telemetry.Info("sign-in link issued", map[string]any{
		"email": email,
		"link":  link,
	})
	return nil
}
