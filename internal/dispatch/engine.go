package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/rjcompany/nfmailer/pkg/attachment"
	"github.com/rjcompany/nfmailer/pkg/folder"
	"github.com/rjcompany/nfmailer/pkg/id"
	"github.com/rjcompany/nfmailer/pkg/logger"
	"github.com/rjcompany/nfmailer/pkg/mailer"
	"github.com/rjcompany/nfmailer/pkg/personalize"
	"github.com/rjcompany/nfmailer/pkg/recipient"
	"github.com/rjcompany/nfmailer/pkg/stats"
)

// Engine drives folder-by-folder dispatch.
type Engine struct {
	sender  mailer.Sender
	store   recipient.Store
	builder *attachment.Builder
	logger  *slog.Logger
	now     func() time.Time

	baseCtx         context.Context
	pauseMode       PauseMode
	delay           time.Duration
	manual          bool
	fallbackSubject string

	// step serializes Step calls; mu is never held across I/O.
	step sync.Mutex

	mu      sync.Mutex
	folders []folder.Folder
	draft   Draft
	state   RunState
	report  *stats.Report
	gen     uint64
	driving bool
}

// New creates an Engine that delivers through sender.
func New(sender mailer.Sender, opts ...Option) *Engine {
	e := &Engine{
		sender:    sender,
		logger:    logger.NewNope(),
		now:       time.Now,
		baseCtx:   context.Background(),
		pauseMode: PauseReset,
		draft:     Draft{Body: personalize.DefaultBody},
		state:     RunState{Status: StatusIdle},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = recipient.NewMemoryStore()
	}
	if e.builder == nil {
		e.builder = attachment.NewBuilder(attachment.WithLogger(e.logger))
	}
	return e
}

// Ingest replaces the folder list and returns the engine to idle.
// It is rejected while a run is active or paused.
func (e *Engine) Ingest(folders []folder.Folder) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Status == StatusRunning || e.state.Status == StatusPaused {
		return ErrAlreadyRunning
	}

	e.folders = slices.Clone(folders)
	e.state = RunState{Status: StatusIdle, Total: len(e.folders)}
	e.report = nil

	if dups := folder.Duplicates(e.folders); len(dups) > 0 {
		e.logger.Warn("duplicate folder names share one override",
			slog.Any("folders", dups),
		)
	}
	e.logger.Info("folders ingested",
		slog.Int("folders", len(e.folders)),
		slog.Int("files", folder.TotalFiles(e.folders)),
	)
	return nil
}

// SetGlobalEmail sets the default recipient.
func (e *Engine) SetGlobalEmail(email string) {
	e.mu.Lock()
	e.draft.GlobalEmail = email
	e.mu.Unlock()
}

// SetSubject sets the subject template.
func (e *Engine) SetSubject(subject string) {
	e.mu.Lock()
	e.draft.Subject = subject
	e.mu.Unlock()
}

// SetBody sets the body template.
func (e *Engine) SetBody(body string) {
	e.mu.Lock()
	e.draft.Body = body
	e.mu.Unlock()
}

// SetDraft replaces the whole draft.
func (e *Engine) SetDraft(d Draft) {
	e.mu.Lock()
	e.draft = d
	e.mu.Unlock()
}

// SetOverride stores a per-folder recipient override. Edits to folders not
// yet processed apply to the current run.
func (e *Engine) SetOverride(ctx context.Context, folderName string, o recipient.Override) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return e.store.Set(ctx, folderName, o)
}

// Overrides returns all stored overrides.
func (e *Engine) Overrides(ctx context.Context) (map[string]recipient.Override, error) {
	return e.store.All(ctx)
}

// Start begins a new run over the ingested folders.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Status == StatusRunning {
		return ErrAlreadyRunning
	}
	if !recipient.ValidAddress(e.draft.GlobalEmail) {
		err := &ValidationError{Address: e.draft.GlobalEmail}
		e.state.LastError = err.Message()
		return err
	}
	if len(e.folders) == 0 {
		return ErrNoFolders
	}

	now := e.now()
	e.gen++
	e.report = nil
	e.state = RunState{
		ID:        id.NewULIDAt(now),
		Status:    StatusRunning,
		Total:     len(e.folders),
		Errors:    []FolderError{},
		StartedAt: now,
	}

	e.logger.Info("run started",
		slog.String("run_id", e.state.ID),
		slog.Int("folders", e.state.Total),
		slog.Duration("estimated", stats.Estimate(e.state.Total)),
	)
	e.spawnLocked()
	return nil
}

// Pause stops the active run. In PauseReset mode the run's progress is
// cleared and the engine returns to idle; in PauseSuspend mode it is kept.
// A step already in flight runs to completion either way.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Status != StatusRunning {
		return ErrNotRunning
	}

	if e.pauseMode == PauseSuspend {
		e.state.Status = StatusPaused
		e.logger.Info("run suspended",
			slog.String("run_id", e.state.ID),
			slog.Int("cursor", e.state.Cursor),
		)
		return nil
	}

	runID, cursor := e.state.ID, e.state.Cursor
	e.gen++
	e.report = nil
	e.state = RunState{Status: StatusIdle, Total: len(e.folders)}
	e.logger.Info("run stopped and cleared",
		slog.String("run_id", runID),
		slog.Int("cursor", cursor),
	)
	return nil
}

// Resume continues a suspended run from its cursor.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Status != StatusPaused {
		return ErrNotPaused
	}
	e.state.Status = StatusRunning
	e.logger.Info("run resumed",
		slog.String("run_id", e.state.ID),
		slog.Int("cursor", e.state.Cursor),
	)
	e.spawnLocked()
	return nil
}

// Reset clears folders, run state and overrides. The draft is kept.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	e.gen++
	e.folders = nil
	e.report = nil
	e.state = RunState{Status: StatusIdle}
	e.mu.Unlock()

	if err := e.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear overrides: %w", err)
	}
	e.logger.Info("engine reset")
	return nil
}

// Snapshot returns a copy of the current run state.
func (e *Engine) Snapshot() RunState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Statistics returns the report of the last completed run.
func (e *Engine) Statistics() (stats.Report, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.report == nil {
		return stats.Report{}, false
	}
	return *e.report, true
}

// Folders returns the ingested folders in order.
func (e *Engine) Folders() []folder.Folder {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.folders)
}

// Draft returns the current draft.
func (e *Engine) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Step processes the folder at the cursor and reports whether the run is
// still active afterwards. It returns false without doing anything when no
// run is active.
func (e *Engine) Step(ctx context.Context) bool {
	e.step.Lock()
	defer e.step.Unlock()

	if ctx.Err() != nil {
		return false
	}

	e.mu.Lock()
	if e.state.Status != StatusRunning {
		e.mu.Unlock()
		return false
	}
	if e.state.Cursor >= len(e.folders) {
		e.completeLocked()
		e.mu.Unlock()
		return false
	}
	f := e.folders[e.state.Cursor]
	gen := e.gen
	draft := e.draft
	runID := e.state.ID
	e.state.Current = f.Name
	e.mu.Unlock()

	ctx = logger.WithRunID(ctx, runID)
	kind, err := e.attempt(ctx, f, draft)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gen != gen {
		e.logger.DebugContext(ctx, "discarding result of cleared run",
			slog.String("folder", f.Name),
		)
		return e.state.Status == StatusRunning
	}

	if err != nil {
		e.state.Errors = append(e.state.Errors, FolderError{
			Folder:  f.Name,
			Kind:    kind,
			Message: err.Error(),
		})
		e.logger.WarnContext(ctx, "folder failed",
			slog.String("folder", f.Name),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
	}
	e.state.Processed++
	e.state.Cursor++
	e.state.Current = ""

	if e.state.Cursor >= len(e.folders) {
		e.completeLocked()
	}
	return e.state.Status == StatusRunning
}

// Run steps until the run is no longer active, waiting the configured delay
// between folders. It returns ctx.Err() if ctx ends first.
func (e *Engine) Run(ctx context.Context) error {
	for e.Step(ctx) {
		if err := e.wait(ctx); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (e *Engine) attempt(ctx context.Context, f folder.Folder, draft Draft) (kind ErrorKind, err error) {
	kind = KindTransport
	defer func() {
		if r := recover(); r != nil {
			kind = KindTransport
			err = fmt.Errorf("%w: %v", ErrStepPanic, r)
		}
	}()

	to, err := recipient.ResolveFor(ctx, e.store, f.Name, draft.GlobalEmail)
	if err != nil {
		return KindTransport, err
	}

	tmpl := personalize.Template{
		Subject:         draft.Subject,
		Body:            draft.Body,
		FallbackSubject: e.fallbackSubject,
	}
	content := tmpl.Personalize(f.Name, f.Filenames())

	attachments, err := e.builder.Build(ctx, f.Files)
	if err != nil {
		return KindRead, err
	}

	messageID, err := e.sender.Send(ctx, &mailer.Email{
		To:          []string{to},
		Subject:     content.Subject,
		Text:        content.Text,
		HTML:        content.HTML,
		Attachments: attachments,
	})
	if err != nil {
		return KindTransport, err
	}

	e.logger.InfoContext(ctx, "folder sent",
		slog.String("folder", f.Name),
		slog.String("to", to),
		slog.String("message_id", messageID),
		slog.Int("attachments", len(attachments)),
	)
	return "", nil
}

func (e *Engine) completeLocked() {
	e.state.Status = StatusCompleted
	e.state.Current = ""
	e.state.FinishedAt = e.now()

	r := stats.Summarize(e.state.StartedAt, e.state.FinishedAt,
		len(e.folders), e.state.Processed, len(e.state.Errors))
	e.report = &r

	e.logger.Info("run completed",
		slog.String("run_id", e.state.ID),
		slog.Int("total", r.TotalEmails),
		slog.Int("errors", r.Errors),
		slog.String("duration", r.Duration()),
		slog.Float64("success_rate", r.SuccessRatePercent),
	)
}

// spawnLocked starts the driver unless one is alive or stepping is manual.
func (e *Engine) spawnLocked() {
	if e.manual || e.driving {
		return
	}
	e.driving = true
	go e.drive(e.baseCtx)
}

func (e *Engine) drive(ctx context.Context) {
	for {
		e.Step(ctx)

		e.mu.Lock()
		if e.state.Status != StatusRunning || ctx.Err() != nil {
			e.driving = false
			e.mu.Unlock()
			return
		}
		e.mu.Unlock()

		if err := e.wait(ctx); err != nil {
			e.mu.Lock()
			e.driving = false
			e.mu.Unlock()
			if !errors.Is(err, context.Canceled) {
				e.logger.Warn("driver stopped", slog.String("error", err.Error()))
			}
			return
		}
	}
}

func (e *Engine) wait(ctx context.Context) error {
	if e.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(e.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
