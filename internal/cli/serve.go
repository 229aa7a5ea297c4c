package cli

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"github.com/rjcompany/nfmailer/internal/config"
	"github.com/rjcompany/nfmailer/internal/dispatch"
	"github.com/rjcompany/nfmailer/internal/ingest"
	"github.com/rjcompany/nfmailer/internal/server"
)

func newServeCommand(g *globals) *cobra.Command {
	var (
		addr  string
		inbox string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP control API",
		Long: `Serve the control API used by the browser UI. Folders arrive by
multipart upload or, with --inbox, from a watched directory whose
subdirectories are customer folders.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var overrides config.Config
			overrides.HTTP.Addr = addr
			overrides.Inbox.Dir = inbox
			cfg, err := g.load(overrides)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, g.opts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&inbox, "inbox", "", "watch this directory for customer folders")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, o *options) error {
	rt, err := build(ctx, cfg, o.stderr)
	if err != nil {
		return err
	}
	defer func() { _ = rt.close(context.Background()) }()

	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engine := rt.engine(dispatch.WithContext(ctx))
	srvOpts := []server.Option{
		server.WithLogger(rt.logger),
		server.WithProbeAddress(rt.probeTo),
		server.WithCORSOrigins(cfg.HTTP.CORSOrigins...),
		server.WithMaxUploadSize(cfg.HTTP.MaxUploadSize),
		server.WithReportLanguage(cfg.Dispatch.ReportLanguage),
	}
	for name, check := range rt.checks {
		srvOpts = append(srvOpts, server.WithReadinessCheck(name, check))
	}
	srv := server.New(engine, rt.mailer, srvOpts...)

	runOpts := []server.RunOption{
		server.Address(cfg.HTTP.Addr),
		server.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
		server.WithContext(ctx),
		server.ShutdownHook(server.Shutdown(engine)),
	}

	if cfg.Inbox.Dir != "" {
		w := ingest.New(cfg.Inbox.Dir, engine,
			ingest.WithDebounce(cfg.Inbox.Debounce),
			ingest.WithLogger(rt.logger),
		)
		runOpts = append(runOpts, server.StartupHook(func(context.Context) error {
			if err := w.Load(); err != nil && !errors.Is(err, dispatch.ErrAlreadyRunning) {
				return err
			}
			wg.Go(func() {
				if err := w.Run(ctx); err != nil {
					rt.logger.Error("inbox watcher stopped", slog.String("error", err.Error()))
				}
			})
			return nil
		}))
	}

	return srv.Run(runOpts...)
}
