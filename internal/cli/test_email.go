package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rjcompany/nfmailer/internal/config"
	"github.com/rjcompany/nfmailer/pkg/mailer"
)

func newTestEmailCommand(g *globals) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "test-email",
		Short: "Send the probe message to verify provider settings",
		Long: `Send a short probe message through the configured provider. The
recipient defaults to the sender account.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load(config.Config{})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			rt, err := build(ctx, cfg, g.opts.stderr)
			if err != nil {
				return err
			}
			defer func() { _ = rt.close(ctx) }()

			if to == "" {
				to = rt.probeTo
			}
			if to == "" {
				return fmt.Errorf("%w: pass --to", mailer.ErrNotConfigured)
			}

			id, err := rt.mailer.SendProbe(ctx, to, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "probe sent to %s (id %s)\n", to, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "recipient (default: sender account)")
	return cmd
}
