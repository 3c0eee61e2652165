package mailer

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendParamsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  SendParams
		wantErr bool
	}{
		{
			name: "valid params",
			params: SendParams{
				To:       "dina@acme.example",
				Subject:  "Welcome to the portal",
				BodyHTML: "<p>Hello</p>",
				Tag:      "welcome",
			},
		},
		{
			name: "invalid recipient",
			params: SendParams{
				To:       "not-an-email",
				Subject:  "Welcome",
				BodyHTML: "<p>Hello</p>",
			},
			wantErr: true,
		},
		{
			name: "empty subject",
			params: SendParams{
				To:       "dina@acme.example",
				BodyHTML: "<p>Hello</p>",
			},
			wantErr: true,
		},
		{
			name: "empty body",
			params: SendParams{
				To:      "dina@acme.example",
				Subject: "Welcome",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.params.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParams)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewPostmarkSenderConfig(t *testing.T) {
	t.Parallel()

	valid := Config{
		ServerToken:  "server-token",
		AccountToken: "account-token",
		SenderEmail:  "portal@acme.example",
	}

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		sender, err := NewPostmarkSender(valid)
		require.NoError(t, err)
		assert.NotNil(t, sender)
	})

	t.Run("missing server token", func(t *testing.T) {
		t.Parallel()
		cfg := valid
		cfg.ServerToken = ""
		_, err := NewPostmarkSender(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("missing account token", func(t *testing.T) {
		t.Parallel()
		cfg := valid
		cfg.AccountToken = ""
		_, err := NewPostmarkSender(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("bad sender email", func(t *testing.T) {
		t.Parallel()
		cfg := valid
		cfg.SenderEmail = "nope"
		_, err := NewPostmarkSender(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestDevSender(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sender := NewDevSender(logger)

	err := sender.Send(context.Background(), SendParams{
		To:       "dina@acme.example",
		Subject:  "Welcome",
		BodyHTML: "<p>Hello</p>",
	})
	assert.NoError(t, err)

	err = sender.Send(context.Background(), SendParams{To: "bad"})
	assert.ErrorIs(t, err, ErrInvalidParams)
}
