package gateway

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Mailer delivers password recovery links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

type logMailer struct {
	log *logrus.Logger
}

// NewLogMailer returns a Mailer that writes the recovery link to the log instead of
// sending an email.
func NewLogMailer(log *logrus.Logger) Mailer {
	return &logMailer{log: log}
}

func (m *logMailer) SendPasswordReset(ctx context.Context, email, link string) error {
	m.log.WithFields(logrus.Fields{
		"email": email,
		"link":  link,
	}).Info("Password recovery email")
	return nil
}
