// Package logger builds the slog loggers used by nfmailer.
//
// NewFromConfig selects the output handler from Config.Format: "json" for
// the long-running server, "console" (charmbracelet/log) for interactive
// commands. A Sentry DSN in Config.Sentry adds a second handler so warnings
// reach Sentry as logs and errors become Issues; if Sentry cannot be
// initialised, logging continues on the output handler alone.
//
//	log := logger.NewFromConfig(cfg.Log, os.Stderr,
//		logger.RunIDExtractor(),
//		middlewares.RequestIDExtractor(),
//	)
//
// # Context extractors
//
// A ContextExtractor turns a context value into a log attribute. They run on
// every record, so an attribute set with WithRunID at the start of a run
// appears on every line the engine logs for it:
//
//	ctx = logger.WithRunID(ctx, runID)
//	log.InfoContext(ctx, "folder sent", slog.String("folder", name))
//	// {"level":"INFO","msg":"folder sent","folder":"ACME","run_id":"01J..."}
//
// NewContextHandler applies extractors to any slog.Handler.
//
// Libraries in this module accept a *slog.Logger option and fall back to
// NewNope.
package logger
