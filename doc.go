// Package nfmailer sends invoice folders by email, one message per
// customer folder.
//
// Each folder's files are attached to a single email whose subject and
// body are personalised with the folder name and the invoice numbers found
// in the file names. Folders are processed strictly in order, one at a
// time, and a failure in one folder never stops the run.
//
// # Quick Start
//
//	engine := nfmailer.New(sender)
//	if err := engine.Ingest(folders); err != nil {
//	    return err
//	}
//	engine.SetGlobalEmail("financeiro@empresa.com.br")
//	if err := engine.Start(); err != nil {
//	    return err
//	}
//
// Start returns immediately; a driver goroutine sends the folders. Poll
// Snapshot for progress and Statistics for the final report. Use
// WithManualStep and Run to drive a run synchronously instead.
//
// # Pausing
//
// Pause in reset mode (the default) discards progress and the in-flight
// result. In suspend mode progress is kept and Resume continues from the
// next folder.
//
// # Recipients
//
// Every folder goes to the global address unless an active override is
// stored for it with SetOverride. Overrides are read at send time, so
// edits during a run affect folders not yet processed.
package nfmailer
