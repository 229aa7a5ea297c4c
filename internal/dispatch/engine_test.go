package dispatch_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rjcompany/nfmailer/internal/dispatch"
	"github.com/rjcompany/nfmailer/pkg/attachment"
	"github.com/rjcompany/nfmailer/pkg/folder"
	"github.com/rjcompany/nfmailer/pkg/mailer"
	"github.com/rjcompany/nfmailer/pkg/recipient"
)

const globalEmail = "financeiro@ecoclean.com.br"

type recorder struct {
	mu     sync.Mutex
	emails []mailer.Email
	fn     func(*mailer.Email) (string, error)
}

func (r *recorder) Send(_ context.Context, e *mailer.Email) (string, error) {
	r.mu.Lock()
	r.emails = append(r.emails, *e)
	n := len(r.emails)
	fn := r.fn
	r.mu.Unlock()

	if fn != nil {
		return fn(e)
	}
	return fmt.Sprintf("msg-%d", n), nil
}

func (r *recorder) sent() []mailer.Email {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mailer.Email(nil), r.emails...)
}

type brokenFile struct{ name string }

func (f brokenFile) Name() string { return f.name }

func (f brokenFile) Open(context.Context) (io.ReadCloser, error) {
	return nil, errors.New("permission denied")
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func makeFolders(names ...string) []folder.Folder {
	out := make([]folder.Folder, len(names))
	for i, name := range names {
		out[i] = folder.Folder{
			Name:  name,
			Files: []folder.File{folder.NewMemFile(fmt.Sprintf("NF_%03d.pdf", i+1), []byte("%PDF-1.4 "+name))},
		}
	}
	return out
}

func newEngine(t *testing.T, sender mailer.Sender, opts ...dispatch.Option) *dispatch.Engine {
	t.Helper()
	eng := dispatch.New(sender, append([]dispatch.Option{dispatch.WithManualStep()}, opts...)...)
	eng.SetGlobalEmail(globalEmail)
	return eng
}

func TestEngine_Run_RecordsReadErrorAndContinues(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC)
	clk := &clock{t: start}
	rec := &recorder{}
	eng := newEngine(t, rec, dispatch.WithClock(clk.now))
	eng.SetSubject("NF {numeros_notas} - {cliente.nome}")
	eng.SetBody("Olá {cliente.nome}\nNotas: {numeros_notas}")

	folders := []folder.Folder{
		{Name: "Acme", Files: []folder.File{
			folder.NewMemFile("NF_001.pdf", []byte("one")),
			folder.NewMemFile("NF_002.pdf", []byte("two")),
		}},
		{Name: "Broken", Files: []folder.File{brokenFile{name: "NF_003.pdf"}}},
		{Name: "Beta", Files: []folder.File{folder.NewMemFile("recibo.pdf", []byte("three"))}},
	}
	require.NoError(t, eng.Ingest(folders))
	require.NoError(t, eng.Start())

	ctx := context.Background()
	require.True(t, eng.Step(ctx))
	require.True(t, eng.Step(ctx))

	clk.set(start.Add(7*time.Second + 400*time.Millisecond))
	require.False(t, eng.Step(ctx))

	state := eng.Snapshot()
	require.Equal(t, dispatch.StatusCompleted, state.Status)
	require.Equal(t, 3, state.Cursor)
	require.Equal(t, 3, state.Processed)
	require.Equal(t, 100, state.Progress())
	require.Len(t, state.Errors, 1)
	require.Equal(t, "Broken", state.Errors[0].Folder)
	require.Equal(t, dispatch.KindRead, state.Errors[0].Kind)
	require.Contains(t, state.Errors[0].Message, "NF_003.pdf")

	sent := rec.sent()
	require.Len(t, sent, 2)

	acme := sent[0]
	require.Equal(t, []string{globalEmail}, acme.To)
	require.Equal(t, "NF 001, 002 - Acme", acme.Subject)
	require.Equal(t, "Olá Acme\nNotas: 001, 002", acme.Text)
	require.Equal(t, "Olá Acme<br>Notas: 001, 002", acme.HTML)
	require.Len(t, acme.Attachments, 2)
	require.Equal(t, "NF_001.pdf", acme.Attachments[0].Filename)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte("one")), acme.Attachments[0].Content)
	require.Equal(t, mailer.EncodingBase64, acme.Attachments[0].Encoding)

	require.Equal(t, "NF  - Beta", sent[1].Subject)

	report, ok := eng.Statistics()
	require.True(t, ok)
	require.Equal(t, int64(7), report.TotalTimeSeconds)
	require.Equal(t, 3, report.TotalEmails)
	require.InDelta(t, 66.666, report.SuccessRatePercent, 0.01)
}

func TestEngine_Start_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		email   string
		wantErr error
	}{
		{name: "empty", email: "", wantErr: dispatch.ErrInvalidEmail},
		{name: "no at", email: "financeiro.ecoclean.com.br", wantErr: dispatch.ErrInvalidEmail},
		{name: "trailing at", email: "financeiro@", wantErr: dispatch.ErrInvalidEmail},
		{name: "minimal", email: "a@b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			eng := newEngine(t, &recorder{})
			require.NoError(t, eng.Ingest(makeFolders("A")))
			eng.SetGlobalEmail(tt.email)

			err := eng.Start()
			if tt.wantErr == nil {
				require.NoError(t, err)
				require.Equal(t, dispatch.StatusRunning, eng.Snapshot().Status)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
			var verr *dispatch.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.email, verr.Address)

			state := eng.Snapshot()
			require.Equal(t, dispatch.StatusIdle, state.Status)
			require.Zero(t, state.Cursor)
			require.Equal(t, verr.Message(), state.LastError)
		})
	}
}

func TestEngine_Start_ClearsLastError(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, &recorder{})
	require.NoError(t, eng.Ingest(makeFolders("A")))
	eng.SetGlobalEmail("bad")
	require.Error(t, eng.Start())
	require.NotEmpty(t, eng.Snapshot().LastError)

	eng.SetGlobalEmail(globalEmail)
	require.NoError(t, eng.Start())
	require.Empty(t, eng.Snapshot().LastError)
}

func TestEngine_Start_Rejections(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, &recorder{})
	require.ErrorIs(t, eng.Start(), dispatch.ErrNoFolders)

	require.NoError(t, eng.Ingest(makeFolders("A", "B")))
	require.NoError(t, eng.Start())
	require.ErrorIs(t, eng.Start(), dispatch.ErrAlreadyRunning)
	require.ErrorIs(t, eng.Ingest(makeFolders("C")), dispatch.ErrAlreadyRunning)
	require.ErrorIs(t, eng.Resume(), dispatch.ErrNotPaused)
}

func TestEngine_Pause_ResetModeClearsProgress(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	eng := newEngine(t, rec)
	require.NoError(t, eng.Ingest(makeFolders("A", "B", "C", "D", "E")))
	require.NoError(t, eng.Start())

	ctx := context.Background()
	require.True(t, eng.Step(ctx))
	require.True(t, eng.Step(ctx))
	require.Equal(t, 2, eng.Snapshot().Cursor)

	// Destructive stop: progress is discarded, not suspended.
	require.NoError(t, eng.Pause())
	state := eng.Snapshot()
	require.Equal(t, dispatch.StatusIdle, state.Status)
	require.Zero(t, state.Cursor)
	require.Zero(t, state.Processed)
	require.Empty(t, state.Errors)
	require.Empty(t, state.ID)
	_, ok := eng.Statistics()
	require.False(t, ok)

	require.False(t, eng.Step(ctx))
	require.ErrorIs(t, eng.Pause(), dispatch.ErrNotRunning)
	require.ErrorIs(t, eng.Resume(), dispatch.ErrNotPaused)
	require.Len(t, eng.Folders(), 5)

	require.NoError(t, eng.Start())
	require.NoError(t, eng.Run(ctx))
	require.Equal(t, dispatch.StatusCompleted, eng.Snapshot().Status)
	require.Len(t, rec.sent(), 7)
}

func TestEngine_Pause_SuspendMode(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	eng := newEngine(t, rec, dispatch.WithPauseMode(dispatch.PauseSuspend))
	require.NoError(t, eng.Ingest(makeFolders("A", "B", "C", "D", "E")))
	require.NoError(t, eng.Start())
	runID := eng.Snapshot().ID

	ctx := context.Background()
	require.True(t, eng.Step(ctx))
	require.True(t, eng.Step(ctx))
	require.NoError(t, eng.Pause())

	state := eng.Snapshot()
	require.Equal(t, dispatch.StatusPaused, state.Status)
	require.Equal(t, 2, state.Cursor)
	require.Equal(t, 2, state.Processed)

	require.False(t, eng.Step(ctx))
	require.Len(t, rec.sent(), 2)
	require.ErrorIs(t, eng.Ingest(makeFolders("X")), dispatch.ErrAlreadyRunning)

	require.NoError(t, eng.Resume())
	require.NoError(t, eng.Run(ctx))

	state = eng.Snapshot()
	require.Equal(t, dispatch.StatusCompleted, state.Status)
	require.Equal(t, runID, state.ID)
	require.Equal(t, 5, state.Processed)

	sent := rec.sent()
	require.Len(t, sent, 5)
	require.Contains(t, sent[2].Text, "C")
}

func TestEngine_Override_ReadAtSendTime(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	eng := newEngine(t, rec)
	ctx := context.Background()
	require.NoError(t, eng.Ingest(makeFolders("A", "B", "C")))

	require.NoError(t, eng.SetOverride(ctx, "B", recipient.Override{Email: "b@cliente.com", UseOverride: false}))
	require.NoError(t, eng.Start())
	require.True(t, eng.Step(ctx))

	// Edited after the run started, before C is processed.
	require.NoError(t, eng.SetOverride(ctx, "C", recipient.Override{Email: "c@cliente.com", UseOverride: true}))
	require.NoError(t, eng.Run(ctx))

	sent := rec.sent()
	require.Len(t, sent, 3)
	require.Equal(t, []string{globalEmail}, sent[0].To)
	require.Equal(t, []string{globalEmail}, sent[1].To)
	require.Equal(t, []string{"c@cliente.com"}, sent[2].To)

	all, err := eng.Overrides(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	err = eng.SetOverride(ctx, "A", recipient.Override{Email: "sem-arroba", UseOverride: true})
	require.ErrorIs(t, err, recipient.ErrInvalidAddress)
}

func TestEngine_DuplicateNamesShareOverride(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	eng := newEngine(t, rec)
	ctx := context.Background()
	require.NoError(t, eng.Ingest(makeFolders("Acme", "Beta", "Acme")))
	require.NoError(t, eng.SetOverride(ctx, "Acme", recipient.Override{Email: "acme@cliente.com", UseOverride: true}))
	require.NoError(t, eng.Start())
	require.NoError(t, eng.Run(ctx))

	sent := rec.sent()
	require.Len(t, sent, 3)
	require.Equal(t, []string{"acme@cliente.com"}, sent[0].To)
	require.Equal(t, []string{globalEmail}, sent[1].To)
	require.Equal(t, []string{"acme@cliente.com"}, sent[2].To)
}

func TestEngine_TransportErrorsAreRecorded(t *testing.T) {
	t.Parallel()

	rec := &recorder{fn: func(e *mailer.Email) (string, error) {
		if e.Subject == "Notas Fiscais - B" {
			return "", errors.Join(mailer.ErrSendFailed, errors.New("535 authentication failed"))
		}
		return "ok", nil
	}}
	eng := newEngine(t, rec)
	require.NoError(t, eng.Ingest(makeFolders("A", "B", "C")))
	require.NoError(t, eng.Start())
	require.NoError(t, eng.Run(context.Background()))

	state := eng.Snapshot()
	require.Equal(t, 3, state.Processed)
	require.Len(t, state.Errors, 1)
	require.Equal(t, dispatch.FolderError{
		Folder:  "B",
		Kind:    dispatch.KindTransport,
		Message: state.Errors[0].Message,
	}, state.Errors[0])
	require.Contains(t, state.Errors[0].Message, "535 authentication failed")
	require.Len(t, rec.sent(), 3)
}

func TestEngine_PanicIsRecovered(t *testing.T) {
	t.Parallel()

	rec := &recorder{fn: func(e *mailer.Email) (string, error) {
		if e.Subject == "Notas Fiscais - A" {
			panic("nil pointer in provider")
		}
		return "ok", nil
	}}
	eng := newEngine(t, rec)
	require.NoError(t, eng.Ingest(makeFolders("A", "B")))
	require.NoError(t, eng.Start())
	require.NoError(t, eng.Run(context.Background()))

	state := eng.Snapshot()
	require.Equal(t, dispatch.StatusCompleted, state.Status)
	require.Equal(t, 2, state.Processed)
	require.Equal(t, state.Cursor, state.Processed)
	require.Len(t, state.Errors, 1)
	require.Equal(t, dispatch.KindTransport, state.Errors[0].Kind)
	require.Contains(t, state.Errors[0].Message, "nil pointer in provider")
}

type failingStore struct {
	recipient.Store
}

func (failingStore) Get(context.Context, string) (*recipient.Override, error) {
	return nil, errors.Join(recipient.ErrStore, errors.New("dial tcp: connection refused"))
}

func (failingStore) Clear(context.Context) error {
	return errors.Join(recipient.ErrStore, errors.New("dial tcp: connection refused"))
}

func TestEngine_StoreFailureIsRecorded(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	eng := newEngine(t, rec, dispatch.WithStore(failingStore{}))
	require.NoError(t, eng.Ingest(makeFolders("A")))
	require.NoError(t, eng.Start())
	require.NoError(t, eng.Run(context.Background()))

	state := eng.Snapshot()
	require.Len(t, state.Errors, 1)
	require.Equal(t, dispatch.KindTransport, state.Errors[0].Kind)
	require.Empty(t, rec.sent())

	require.ErrorIs(t, eng.Reset(context.Background()), recipient.ErrStore)
}

func TestEngine_MaxFileSize(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	eng := newEngine(t, rec, dispatch.WithBuilder(attachment.NewBuilder(attachment.WithMaxFileSize(4))))
	require.NoError(t, eng.Ingest(makeFolders("A")))
	require.NoError(t, eng.Start())
	require.NoError(t, eng.Run(context.Background()))

	state := eng.Snapshot()
	require.Len(t, state.Errors, 1)
	require.Equal(t, dispatch.KindRead, state.Errors[0].Kind)
	require.Empty(t, rec.sent())
}

func TestEngine_Reset(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, &recorder{})
	ctx := context.Background()
	require.NoError(t, eng.Ingest(makeFolders("A", "B")))
	eng.SetSubject("Assunto")
	require.NoError(t, eng.SetOverride(ctx, "A", recipient.Override{Email: "a@x.com", UseOverride: true}))
	require.NoError(t, eng.Start())
	require.True(t, eng.Step(ctx))

	require.NoError(t, eng.Reset(ctx))

	state := eng.Snapshot()
	require.Equal(t, dispatch.StatusIdle, state.Status)
	require.Zero(t, state.Cursor)
	require.Zero(t, state.Total)
	require.Empty(t, eng.Folders())

	all, err := eng.Overrides(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	require.Equal(t, "Assunto", eng.Draft().Subject)
	require.Equal(t, globalEmail, eng.Draft().GlobalEmail)
	require.ErrorIs(t, eng.Start(), dispatch.ErrNoFolders)
}

func TestEngine_RestartAfterCompletion(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	eng := newEngine(t, rec)
	ctx := context.Background()
	require.NoError(t, eng.Ingest(makeFolders("A", "B")))

	require.NoError(t, eng.Start())
	first := eng.Snapshot().ID
	require.NoError(t, eng.Run(ctx))
	_, ok := eng.Statistics()
	require.True(t, ok)

	require.NoError(t, eng.Start())
	state := eng.Snapshot()
	require.NotEqual(t, first, state.ID)
	require.Zero(t, state.Cursor)
	_, ok = eng.Statistics()
	require.False(t, ok)

	require.NoError(t, eng.Run(ctx))
	require.Len(t, rec.sent(), 4)
}

func TestEngine_FallbackSubject(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	eng := newEngine(t, rec, dispatch.WithFallbackSubject("Faturas {cliente.nome}"))
	require.NoError(t, eng.Ingest(makeFolders("Acme")))
	eng.SetSubject("   ")
	require.NoError(t, eng.Start())
	require.NoError(t, eng.Run(context.Background()))

	sent := rec.sent()
	require.Len(t, sent, 1)
	require.Equal(t, "Faturas Acme", sent[0].Subject)
}

func TestEngine_DefaultDraft(t *testing.T) {
	t.Parallel()

	eng := dispatch.New(&recorder{})
	d := eng.Draft()
	require.Empty(t, d.GlobalEmail)
	require.Empty(t, d.Subject)
	require.Contains(t, d.Body, "Prezado(a) cliente")

	eng.SetDraft(dispatch.Draft{GlobalEmail: "x@y.z", Subject: "S", Body: "B"})
	require.Equal(t, dispatch.Draft{GlobalEmail: "x@y.z", Subject: "S", Body: "B"}, eng.Draft())
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, email *mailer.Email) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func TestEngine_SendsOneEmailPerFolder(t *testing.T) {
	t.Parallel()

	sender := new(MockSender)
	for _, name := range []string{"A", "B"} {
		sender.On("Send", mock.Anything, mock.MatchedBy(func(e *mailer.Email) bool {
			return e.Subject == "Notas Fiscais - "+name && len(e.Attachments) == 1
		})).Return("id-"+name, nil).Once()
	}

	eng := newEngine(t, sender)
	require.NoError(t, eng.Ingest(makeFolders("A", "B")))
	require.NoError(t, eng.Start())
	require.NoError(t, eng.Run(context.Background()))

	sender.AssertExpectations(t)
	require.Empty(t, eng.Snapshot().Errors)
}

func TestEngine_Run_DelayHonorsContext(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	eng := newEngine(t, rec, dispatch.WithDelay(time.Hour))
	require.NoError(t, eng.Ingest(makeFolders("A", "B")))
	require.NoError(t, eng.Start())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := eng.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Len(t, rec.sent(), 1)
	require.Equal(t, 1, eng.Snapshot().Cursor)
	require.Equal(t, dispatch.StatusRunning, eng.Snapshot().Status)
}

func TestEngine_Driver(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	eng := dispatch.New(rec)
	eng.SetGlobalEmail(globalEmail)
	require.NoError(t, eng.Ingest(makeFolders("A", "B", "C")))
	require.NoError(t, eng.Start())

	require.Eventually(t, func() bool {
		return eng.Snapshot().Status == dispatch.StatusCompleted
	}, 2*time.Second, 5*time.Millisecond)
	require.Len(t, rec.sent(), 3)
}

// blockingSender holds each send until released.
type blockingSender struct {
	entered chan string
	release chan struct{}
	rec     recorder
}

func newBlockingSender() *blockingSender {
	return &blockingSender{
		entered: make(chan string, 16),
		release: make(chan struct{}),
	}
}

func (b *blockingSender) Send(ctx context.Context, e *mailer.Email) (string, error) {
	b.entered <- e.Subject
	<-b.release
	return b.rec.Send(ctx, e)
}

func TestEngine_Driver_PauseResetDiscardsInFlight(t *testing.T) {
	t.Parallel()

	sender := newBlockingSender()
	eng := dispatch.New(sender)
	eng.SetGlobalEmail(globalEmail)
	require.NoError(t, eng.Ingest(makeFolders("A", "B", "C")))
	require.NoError(t, eng.Start())

	require.Equal(t, "Notas Fiscais - A", <-sender.entered)
	require.Equal(t, "A", eng.Snapshot().Current)
	require.NoError(t, eng.Pause())
	close(sender.release)

	// The in-flight send completes but its result belongs to a cleared run.
	require.Eventually(t, func() bool {
		return len(sender.rec.sent()) == 1
	}, 2*time.Second, 5*time.Millisecond)
	require.Never(t, func() bool {
		return eng.Snapshot().Cursor != 0
	}, 50*time.Millisecond, 5*time.Millisecond)

	state := eng.Snapshot()
	require.Equal(t, dispatch.StatusIdle, state.Status)
	require.Zero(t, state.Processed)
	require.Len(t, sender.rec.sent(), 1)
}

func TestEngine_Driver_SuspendKeepsInFlightResult(t *testing.T) {
	t.Parallel()

	sender := newBlockingSender()
	eng := dispatch.New(sender, dispatch.WithPauseMode(dispatch.PauseSuspend))
	eng.SetGlobalEmail(globalEmail)
	require.NoError(t, eng.Ingest(makeFolders("A", "B", "C")))
	require.NoError(t, eng.Start())

	<-sender.entered
	require.NoError(t, eng.Pause())
	close(sender.release)

	require.Eventually(t, func() bool {
		return eng.Snapshot().Cursor == 1
	}, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, dispatch.StatusPaused, eng.Snapshot().Status)
	require.Len(t, sender.rec.sent(), 1)

	require.NoError(t, eng.Resume())
	require.Eventually(t, func() bool {
		return eng.Snapshot().Status == dispatch.StatusCompleted
	}, 2*time.Second, 5*time.Millisecond)
	require.Len(t, sender.rec.sent(), 3)
}

func TestEngine_Driver_StopsWithContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	eng := dispatch.New(rec, dispatch.WithContext(ctx), dispatch.WithDelay(time.Hour))
	eng.SetGlobalEmail(globalEmail)
	require.NoError(t, eng.Ingest(makeFolders("A", "B")))
	require.NoError(t, eng.Start())

	require.Eventually(t, func() bool {
		return len(rec.sent()) == 1
	}, 2*time.Second, 5*time.Millisecond)
	cancel()

	require.Never(t, func() bool {
		return len(rec.sent()) > 1
	}, 50*time.Millisecond, 5*time.Millisecond)
}

func TestParsePauseMode(t *testing.T) {
	t.Parallel()

	require.Equal(t, dispatch.PauseSuspend, dispatch.ParsePauseMode("suspend"))
	require.Equal(t, dispatch.PauseReset, dispatch.ParsePauseMode("reset"))
	require.Equal(t, dispatch.PauseReset, dispatch.ParsePauseMode(""))
}
