package smtp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	mail "github.com/xhit/go-simple-mail/v2"

	"github.com/rjcompany/nfmailer/pkg/mailer"
)

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Username: "nf@ecoclean.com"})
	require.ErrorIs(t, err, mailer.ErrNotConfigured)

	s, err := New(Config{Username: "nf@ecoclean.com", Password: "app-password"})
	require.NoError(t, err)
	require.Equal(t, DefaultHost, s.config.Host)
	require.Equal(t, DefaultPort, s.config.Port)
	require.Equal(t, "nf@ecoclean.com", s.Address())
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	s, err := New(Config{Username: "nf@ecoclean.com", Password: "secret", SenderName: "Eco Clean"})
	require.NoError(t, err)

	var sent *mail.Email
	s.deliver = func(m *mail.Email) error {
		sent = m
		return nil
	}

	id, err := s.Send(context.Background(), &mailer.Email{
		To:          []string{"cliente@acme.com"},
		Subject:     "Notas Fiscais - ACME",
		Text:        "Segue",
		HTML:        "Segue",
		Attachments: []mailer.Attachment{mailer.NewAttachment("nf 101.pdf", "application/pdf", []byte("%PDF"))},
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(id, "<"))
	require.True(t, strings.HasSuffix(id, "@ecoclean.com>"))

	raw := sent.GetMessage()
	require.Contains(t, raw, "Notas Fiscais - ACME")
	require.Contains(t, raw, "cliente@acme.com")
	require.Contains(t, raw, "nf 101.pdf")
}

func TestSender_Send_DeliverFailure(t *testing.T) {
	t.Parallel()

	s, err := New(Config{Username: "nf@ecoclean.com", Password: "secret"})
	require.NoError(t, err)

	boom := errors.New("535 authentication failed")
	s.deliver = func(*mail.Email) error { return boom }

	_, err = s.Send(context.Background(), &mailer.Email{To: []string{"a@b.com"}, Subject: "x", Text: "y"})
	require.ErrorIs(t, err, boom)
}

func TestSender_Send_Canceled(t *testing.T) {
	t.Parallel()

	s, err := New(Config{Username: "nf@ecoclean.com", Password: "secret"})
	require.NoError(t, err)
	s.deliver = func(*mail.Email) error {
		t.Fatal("deliver must not be called")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Send(ctx, &mailer.Email{To: []string{"a@b.com"}})
	require.ErrorIs(t, err, context.Canceled)
}
