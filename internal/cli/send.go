package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rjcompany/nfmailer/internal/config"
	"github.com/rjcompany/nfmailer/internal/dispatch"
	"github.com/rjcompany/nfmailer/pkg/folder"
	"github.com/rjcompany/nfmailer/pkg/logger"
	"github.com/rjcompany/nfmailer/pkg/stats"
)

var (
	// ErrNoSource is returned when send has neither --dir nor --s3-prefix.
	ErrNoSource = errors.New("cli: one of --dir or --s3-prefix is required")
	// ErrNoStorage is returned for --s3-prefix without storage settings.
	ErrNoStorage = errors.New("cli: --s3-prefix requires STORAGE_* settings")
	// ErrFolderFailures is returned when a run completes with failed folders.
	ErrFolderFailures = errors.New("cli: some folders failed")
)

type sendFlags struct {
	dir         string
	s3Prefix    string
	to          string
	overrides   string
	subject     string
	body        string
	delay       time.Duration
	maxFileSize int64
	lang        string
}

func newSendCommand(g *globals) *cobra.Command {
	var f sendFlags

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send one email per customer folder and exit",
		Long: `Run a batch without the HTTP API. Every subdirectory of --dir (or every
"<prefix>/<client>/" group under --s3-prefix) becomes one email with the
folder's files attached. A summary is printed when the run ends.`,
		Example: `  nfmailer send --dir ./clientes --to financeiro@empresa.com.br
  nfmailer send --s3-prefix 2024-06 --overrides overrides.yaml --delay 3s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (f.dir == "") == (f.s3Prefix == "") {
				return ErrNoSource
			}

			var overrides config.Config
			overrides.Log.Format = logger.FormatConsole
			overrides.Dispatch.GlobalEmail = f.to
			overrides.Dispatch.OverridesFile = f.overrides
			overrides.Dispatch.Subject = f.subject
			overrides.Dispatch.Body = f.body
			overrides.Dispatch.SendDelay = f.delay
			overrides.Dispatch.MaxFileSize = f.maxFileSize
			overrides.Dispatch.ReportLanguage = f.lang
			cfg, err := g.load(overrides)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return send(ctx, cfg, f, g.opts)
		},
	}

	cmd.Flags().StringVar(&f.dir, "dir", "", "directory whose subdirectories are customer folders")
	cmd.Flags().StringVar(&f.s3Prefix, "s3-prefix", "", "object storage prefix holding customer folders")
	cmd.Flags().StringVar(&f.to, "to", "", "global recipient address")
	cmd.Flags().StringVar(&f.overrides, "overrides", "", "YAML or JSON file of per-folder recipient overrides")
	cmd.Flags().StringVar(&f.subject, "subject", "", "subject template")
	cmd.Flags().StringVar(&f.body, "body", "", "body template")
	cmd.Flags().DurationVar(&f.delay, "delay", 0, "wait between folders")
	cmd.Flags().Int64Var(&f.maxFileSize, "max-file-size", 0, "reject files larger than this many bytes (0 = no limit)")
	cmd.Flags().StringVar(&f.lang, "lang", "", "summary language (pt-BR, en)")
	cmd.MarkFlagsMutuallyExclusive("dir", "s3-prefix")
	return cmd
}

func send(ctx context.Context, cfg config.Config, f sendFlags, o *options) error {
	rt, err := build(ctx, cfg, o.stderr)
	if err != nil {
		return err
	}
	defer func() { _ = rt.close(context.Background()) }()

	var folders []folder.Folder
	switch {
	case f.dir != "":
		folders, err = folder.FromDir(f.dir)
	case rt.objects == nil:
		return ErrNoStorage
	default:
		folders, err = folder.FromStorage(ctx, rt.objects, f.s3Prefix)
	}
	if err != nil {
		return err
	}

	engine := rt.engine(dispatch.WithManualStep())
	if err := engine.Ingest(folders); err != nil {
		return err
	}
	if err := engine.Start(); err != nil {
		return err
	}

	printer := stats.NewPrinter(cfg.Dispatch.ReportLanguage)
	fmt.Fprintf(o.stdout, "%d pasta(s), %d arquivo(s), estimativa %s\n",
		len(folders), folder.TotalFiles(folders),
		stats.FormatSeconds(int64(stats.Estimate(len(folders)).Seconds())),
	)

	runErr := engine.Run(ctx)
	state := engine.Snapshot()
	printFailures(o.stdout, state.Errors)

	if runErr != nil {
		fmt.Fprintf(o.stdout, "interrompido em %d/%d\n", state.Processed, state.Total)
		return runErr
	}

	if report, ok := engine.Statistics(); ok {
		fmt.Fprint(o.stdout, printer.Format(report))
	}
	if len(state.Errors) > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFolderFailures, len(state.Errors), state.Total)
	}
	return nil
}

func printFailures(w io.Writer, errs []dispatch.FolderError) {
	for _, e := range errs {
		fmt.Fprintf(w, "  x %s (%s): %s\n", e.Folder, e.Kind, e.Message)
	}
}
