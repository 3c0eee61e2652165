package mailer

import (
	"context"
	"errors"
	"regexp"
)

var (
	ErrInvalidConfig     = errors.New("mailer: invalid configuration")
	ErrInvalidParams     = errors.New("mailer: invalid send parameters")
	ErrFailedToSendEmail = errors.New("mailer: failed to send email")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// SendParams describes one outgoing transactional mail.
type SendParams struct {
	To       string
	Subject  string
	BodyHTML string
	Tag      string
}

func (p SendParams) Validate() error {
	if !emailRegex.MatchString(p.To) {
		return ErrInvalidParams
	}
	if p.Subject == "" || p.BodyHTML == "" {
		return ErrInvalidParams
	}
	return nil
}

// Sender sends transactional mail. Implementations: Postmark for production,
// the dev sender for everything else.
type Sender interface {
	Send(ctx context.Context, params SendParams) error
}
