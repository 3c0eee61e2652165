package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/wicaksana/internal-portal/internal/core/events"
	"github.com/wicaksana/internal-portal/pkg/mailer"
)

func TestNotification(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Notification Module Suite")
}

type capturingSender struct {
	sent []mailer.SendParams
	err  error
}

func (s *capturingSender) Send(_ context.Context, params mailer.SendParams) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, params)
	return nil
}

type stubLookup struct {
	emails map[int64]string
	names  map[int64]string
}

func (l *stubLookup) EmailForUser(_ context.Context, userID int64) (string, string, error) {
	email, ok := l.emails[userID]
	if !ok {
		return "", "", errors.New("user not found")
	}
	return email, l.names[userID], nil
}

var _ = ginkgo.Describe("Notifier", func() {
	var (
		sender   *capturingSender
		lookup   *stubLookup
		notifier *Notifier
	)

	ginkgo.BeforeEach(func() {
		sender = &capturingSender{}
		lookup = &stubLookup{
			emails: map[int64]string{7: "dina@acme.example"},
			names:  map[int64]string{7: "Dina"},
		}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		notifier = NewNotifier(sender, lookup, logger)
	})

	ginkgo.Describe("user created", func() {
		ginkgo.It("sends a welcome email to the new user", func() {
			event := events.NewUserCreated(7, "dina@acme.example", "Dina")
			err := notifier.handleUserCreated(context.Background(), event)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(sender.sent).To(gomega.HaveLen(1))
			gomega.Expect(sender.sent[0].To).To(gomega.Equal("dina@acme.example"))
			gomega.Expect(sender.sent[0].Tag).To(gomega.Equal("welcome"))
		})

		ginkgo.It("fails when the event carries no email", func() {
			event := events.NewUserCreated(7, "", "Dina")
			err := notifier.handleUserCreated(context.Background(), event)
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(sender.sent).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("confidential access granted", func() {
		ginkgo.It("notifies the granted user", func() {
			event := events.NewConfidentialAccessGranted(7, 42, 1)
			err := notifier.handleConfidentialAccessGranted(context.Background(), event)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(sender.sent).To(gomega.HaveLen(1))
			gomega.Expect(sender.sent[0].To).To(gomega.Equal("dina@acme.example"))
			gomega.Expect(sender.sent[0].Tag).To(gomega.Equal("confidential-access"))
		})

		ginkgo.It("fails when the user cannot be resolved", func() {
			event := events.NewConfidentialAccessGranted(99, 42, 1)
			err := notifier.handleConfidentialAccessGranted(context.Background(), event)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})
})
