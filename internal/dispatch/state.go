package dispatch

import (
	"slices"
	"time"

	"github.com/rjcompany/nfmailer/pkg/stats"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// PauseMode selects what Pause does to a running batch.
type PauseMode string

const (
	// PauseReset stops the run and clears cursor, counters and errors.
	PauseReset PauseMode = "reset"
	// PauseSuspend freezes the run so Resume continues where it stopped.
	PauseSuspend PauseMode = "suspend"
)

// ParsePauseMode returns the mode named by s, defaulting to PauseReset.
func ParsePauseMode(s string) PauseMode {
	if PauseMode(s) == PauseSuspend {
		return PauseSuspend
	}
	return PauseReset
}

// ErrorKind classifies a per-folder failure.
type ErrorKind string

const (
	KindRead      ErrorKind = "read"
	KindTransport ErrorKind = "transport"
)

// FolderError records one failed folder attempt.
type FolderError struct {
	Folder  string    `json:"folderName"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"error"`
}

// Draft is the operator-edited part of a run.
type Draft struct {
	GlobalEmail string `json:"globalEmail"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

// RunState is a snapshot of the engine's run.
type RunState struct {
	ID         string        `json:"id,omitempty"`
	Status     Status        `json:"status"`
	Cursor     int           `json:"cursor"`
	Processed  int           `json:"processed"`
	Total      int           `json:"total"`
	Errors     []FolderError `json:"errors"`
	Current    string        `json:"currentFolder,omitempty"`
	LastError  string        `json:"lastError,omitempty"`
	StartedAt  time.Time     `json:"startedAt,omitzero"`
	FinishedAt time.Time     `json:"finishedAt,omitzero"`
}

// Progress returns the processed share of the run as a rounded percentage.
func (s RunState) Progress() int {
	return stats.Progress(s.Processed, s.Total)
}

func (s RunState) clone() RunState {
	s.Errors = slices.Clone(s.Errors)
	if s.Errors == nil {
		s.Errors = []FolderError{}
	}
	return s
}
