package nfmailer

import (
	"github.com/rjcompany/nfmailer/internal/dispatch"
	"github.com/rjcompany/nfmailer/pkg/folder"
	"github.com/rjcompany/nfmailer/pkg/mailer"
	"github.com/rjcompany/nfmailer/pkg/recipient"
	"github.com/rjcompany/nfmailer/pkg/stats"
)

// Type aliases - public API
type (
	// Engine runs batch dispatches.
	Engine = dispatch.Engine

	// Option configures an Engine.
	Option = dispatch.Option

	// Draft is the global address plus subject and body templates.
	Draft = dispatch.Draft

	// RunState is a snapshot of a run.
	RunState = dispatch.RunState

	// Status is the run lifecycle state.
	Status = dispatch.Status

	// PauseMode selects what Pause does to progress.
	PauseMode = dispatch.PauseMode

	// FolderError records one failed folder.
	FolderError = dispatch.FolderError

	// ValidationError reports an invalid global address on Start.
	ValidationError = dispatch.ValidationError

	// Folder is one customer folder.
	Folder = folder.Folder

	// File is one file inside a Folder.
	File = folder.File

	// Override redirects one folder to a different address.
	Override = recipient.Override

	// Sender delivers one email.
	Sender = mailer.Sender

	// Report is the summary of a completed run.
	Report = stats.Report
)

// Run statuses.
const (
	StatusIdle      = dispatch.StatusIdle
	StatusRunning   = dispatch.StatusRunning
	StatusPaused    = dispatch.StatusPaused
	StatusCompleted = dispatch.StatusCompleted
)

// Pause modes.
const (
	PauseReset   = dispatch.PauseReset
	PauseSuspend = dispatch.PauseSuspend
)

// Errors.
var (
	ErrInvalidEmail   = dispatch.ErrInvalidEmail
	ErrNoFolders      = dispatch.ErrNoFolders
	ErrAlreadyRunning = dispatch.ErrAlreadyRunning
	ErrNotRunning     = dispatch.ErrNotRunning
	ErrNotPaused      = dispatch.ErrNotPaused
)

// Engine options.
var (
	WithLogger          = dispatch.WithLogger
	WithPauseMode       = dispatch.WithPauseMode
	WithDelay           = dispatch.WithDelay
	WithManualStep      = dispatch.WithManualStep
	WithContext         = dispatch.WithContext
	WithFallbackSubject = dispatch.WithFallbackSubject
	WithBuilder         = dispatch.WithBuilder
	WithStore           = dispatch.WithStore
	WithClock           = dispatch.WithClock
)

// New creates an Engine that delivers through sender.
func New(sender Sender, opts ...Option) *Engine {
	return dispatch.New(sender, opts...)
}

// FromDir reads customer folders from the subdirectories of dir.
func FromDir(dir string) ([]Folder, error) {
	return folder.FromDir(dir)
}
