// Package dispatch implements the sequential batch-dispatch engine.
//
// An Engine holds an ordered list of customer folders, an editable draft
// (recipient address, subject and body templates) and the state of the
// current run. Each step processes the folder at the cursor: it resolves the
// recipient, personalises the content, reads the attachments and hands one
// email to a mailer.Sender. Per-folder failures are recorded and the run moves
// on; a run never aborts.
//
// Commands (Start, Pause, Resume, Reset, Ingest and the draft setters) may be
// called from any goroutine. Exactly one step is in flight at any time.
//
// Basic usage:
//
//	eng := dispatch.New(sender, dispatch.WithLogger(log))
//	_ = eng.Ingest(folders)
//	eng.SetGlobalEmail("financeiro@example.com")
//	if err := eng.Start(); err != nil {
//		return err
//	}
//
// By default Start launches a driver goroutine that steps until the run
// completes. WithManualStep disables it so callers advance the run with Step
// or Run.
//
// Pause has two modes. PauseReset (default) stops the run and clears its
// progress. PauseSuspend keeps the progress and Resume continues from the
// same folder.
package dispatch
