package recipient_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rjcompany/nfmailer/pkg/cache"
	"github.com/rjcompany/nfmailer/pkg/recipient"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	const global = "g@h.com"

	tests := []struct {
		name     string
		override *recipient.Override
		want     string
	}{
		{"active override wins", &recipient.Override{Email: "a@b.com", UseOverride: true}, "a@b.com"},
		{"disabled override falls back", &recipient.Override{Email: "a@b.com", UseOverride: false}, global},
		{"empty email falls back", &recipient.Override{UseOverride: true}, global},
		{"blank email falls back", &recipient.Override{Email: "  ", UseOverride: true}, global},
		{"absent override falls back", nil, global},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, recipient.Resolve(tt.override, global))
		})
	}
}

func TestValidAddress(t *testing.T) {
	t.Parallel()

	require.True(t, recipient.ValidAddress("a@b.com"))
	require.True(t, recipient.ValidAddress("a@b"))
	require.False(t, recipient.ValidAddress("not-an-email"))
	require.False(t, recipient.ValidAddress("a@"))
	require.False(t, recipient.ValidAddress(""))
}

func TestOverride_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, recipient.Override{}.Validate())
	require.NoError(t, recipient.Override{Email: "c@cliente.com", UseOverride: true}.Validate())
	require.NoError(t, recipient.Override{Email: "  ", UseOverride: true}.Validate())
	require.ErrorIs(t, recipient.Override{Email: "cliente.com"}.Validate(), recipient.ErrInvalidAddress)
}

func TestCacheStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := recipient.NewMemoryStore()
	t.Cleanup(func() { _ = s.Close() })

	o, err := s.Get(ctx, "ACME")
	require.NoError(t, err)
	require.Nil(t, o)

	require.NoError(t, s.Set(ctx, "ACME", recipient.Override{Email: "fin@acme.com", UseOverride: true}))
	o, err = s.Get(ctx, "ACME")
	require.NoError(t, err)
	require.Equal(t, "fin@acme.com", o.Email)

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, s.Delete(ctx, "ACME"))
	o, err = s.Get(ctx, "ACME")
	require.NoError(t, err)
	require.Nil(t, o)

	require.NoError(t, s.Set(ctx, "Globex", recipient.Override{Email: "x@g.com"}))
	require.NoError(t, s.Clear(ctx))
	all, err = s.All(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (recipient.Override, error) {
	return recipient.Override{}, errors.New("connection refused")
}
func (failingCache) Set(context.Context, string, recipient.Override, time.Duration) error {
	return errors.New("connection refused")
}
func (failingCache) Delete(context.Context, string) error { return errors.New("connection refused") }
func (failingCache) Entries(context.Context) (map[string]recipient.Override, error) {
	return nil, errors.New("connection refused")
}
func (failingCache) Clear(context.Context) error { return errors.New("connection refused") }
func (failingCache) Close() error                { return nil }

var _ cache.Cache[recipient.Override] = failingCache{}

func TestCacheStore_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := recipient.NewStore(failingCache{})

	_, err := s.Get(ctx, "ACME")
	require.ErrorIs(t, err, recipient.ErrStore)
	require.ErrorIs(t, s.Set(ctx, "ACME", recipient.Override{}), recipient.ErrStore)
	require.ErrorIs(t, s.Delete(ctx, "ACME"), recipient.ErrStore)
	require.ErrorIs(t, s.Clear(ctx), recipient.ErrStore)
	_, err = s.All(ctx)
	require.ErrorIs(t, err, recipient.ErrStore)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ACME:
  email: fin@acme.com
  use_override: true
"Globex Ltda":
  email: nf@globex.com
`), 0o600))

	got, err := recipient.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, map[string]recipient.Override{
		"ACME":        {Email: "fin@acme.com", UseOverride: true},
		"Globex Ltda": {Email: "nf@globex.com"},
	}, got)

	s := recipient.NewMemoryStore()
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, recipient.Import(context.Background(), s, got))
	o, err := s.Get(context.Background(), "Globex Ltda")
	require.NoError(t, err)
	require.Equal(t, "nf@globex.com", o.Email)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	_, err := recipient.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, recipient.ErrInvalidFile)

	_, err = recipient.Parse([]byte("- just\n- a list\n"))
	require.ErrorIs(t, err, recipient.ErrInvalidFile)
}

func TestResolveFor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := recipient.NewMemoryStore()
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Set(ctx, "ACME", recipient.Override{Email: "a@b.com", UseOverride: true}))

	to, err := recipient.ResolveFor(ctx, s, "ACME", "g@h.com")
	require.NoError(t, err)
	require.Equal(t, "a@b.com", to)

	to, err = recipient.ResolveFor(ctx, s, "Globex", "g@h.com")
	require.NoError(t, err)
	require.Equal(t, "g@h.com", to)

	_, err = recipient.ResolveFor(ctx, recipient.NewStore(failingCache{}), "ACME", "g@h.com")
	require.ErrorIs(t, err, recipient.ErrStore)
}
