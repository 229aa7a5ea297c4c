package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rjcompany/nfmailer/internal/config"
)

// Version is set at build time with -ldflags.
var Version = "dev"

type options struct {
	environ map[string]string
	stdout  io.Writer
	stderr  io.Writer
}

// Option configures the command tree.
type Option func(*options)

// WithEnviron replaces the process environment as the settings source.
func WithEnviron(environ map[string]string) Option {
	return func(o *options) {
		o.environ = environ
	}
}

// WithOutput redirects command output and logs.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(o *options) {
		if stdout != nil {
			o.stdout = stdout
		}
		if stderr != nil {
			o.stderr = stderr
		}
	}
}

// globals are the flags shared by every command.
type globals struct {
	opts      *options
	logLevel  string
	logFormat string
	provider  string
}

// load parses settings and overlays the global flags.
func (g *globals) load(overrides config.Config) (config.Config, error) {
	cfg, err := config.LoadFrom(g.opts.environ)
	if err != nil {
		return config.Config{}, err
	}
	if g.logLevel != "" {
		overrides.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		overrides.Log.Format = g.logFormat
	}
	if g.provider != "" {
		overrides.Mail.Provider = g.provider
	}
	return config.Overlay(cfg, overrides)
}

// NewRootCommand builds the nfmailer command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	o := &options{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}
	g := &globals{opts: o}

	root := &cobra.Command{
		Use:   "nfmailer",
		Short: "Batch email dispatch of invoice folders",
		Long: `nfmailer sends one email per customer folder, attaching every file in
the folder and personalising subject and body with the folder name and
invoice numbers.

Example:
  nfmailer serve --inbox ./clientes     # control API plus inbox watcher
  nfmailer send --dir ./clientes --to financeiro@empresa.com.br
  nfmailer test-email`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(o.stdout)
	root.SetErr(o.stderr)

	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "log format (json, console)")
	root.PersistentFlags().StringVar(&g.provider, "provider", "", "mail provider (smtp, resend, mailgun, http)")

	root.AddCommand(newServeCommand(g))
	root.AddCommand(newSendCommand(g))
	root.AddCommand(newTestEmailCommand(g))
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, opts ...Option) error {
	root := NewRootCommand(opts...)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
