package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rjcompany/nfmailer/internal/config"
	"github.com/rjcompany/nfmailer/internal/dispatch"
	"github.com/rjcompany/nfmailer/middlewares"
	"github.com/rjcompany/nfmailer/pkg/attachment"
	"github.com/rjcompany/nfmailer/pkg/cache"
	"github.com/rjcompany/nfmailer/pkg/health"
	"github.com/rjcompany/nfmailer/pkg/logger"
	"github.com/rjcompany/nfmailer/pkg/mailer"
	"github.com/rjcompany/nfmailer/pkg/mailer/httpapi"
	"github.com/rjcompany/nfmailer/pkg/mailer/mailgun"
	"github.com/rjcompany/nfmailer/pkg/mailer/resend"
	"github.com/rjcompany/nfmailer/pkg/mailer/smtp"
	"github.com/rjcompany/nfmailer/pkg/recipient"
	"github.com/rjcompany/nfmailer/pkg/redis"
	"github.com/rjcompany/nfmailer/pkg/storage"
)

const overridesPrefix = "nfmailer:overrides"

// runtime holds the collaborators shared by the commands.
type runtime struct {
	cfg     config.Config
	logger  *slog.Logger
	mailer  *mailer.Mailer
	probeTo string
	store   recipient.Store
	objects *storage.S3Storage
	checks  health.Checks
	closers []func(context.Context) error
}

func newLogger(cfg logger.Config, w io.Writer) *slog.Logger {
	return logger.NewFromConfig(cfg, w, logger.RunIDExtractor(), middlewares.RequestIDExtractor())
}

func build(ctx context.Context, cfg config.Config, logw io.Writer) (*runtime, error) {
	rt := &runtime{
		cfg:    cfg,
		logger: newLogger(cfg.Log, logw),
		checks: health.Checks{},
	}

	sender, probeTo, err := newSender(cfg.Mail)
	if err != nil {
		return nil, err
	}
	rt.probeTo = probeTo
	rt.mailer = mailer.New(sender, cfg.Mail.Mailer, mailer.WithLogger(rt.logger))

	if err := rt.openStore(ctx); err != nil {
		return nil, err
	}

	if cfg.Storage.Configured() {
		s3, err := storage.New(cfg.Storage)
		if err != nil {
			_ = rt.close(ctx)
			return nil, fmt.Errorf("open storage: %w", err)
		}
		rt.objects = s3
		rt.checks["storage"] = s3.Healthcheck()
	}

	if path := cfg.Dispatch.OverridesFile; path != "" {
		overrides, err := recipient.LoadFile(path)
		if err != nil {
			_ = rt.close(ctx)
			return nil, err
		}
		if err := recipient.Import(ctx, rt.store, overrides); err != nil {
			_ = rt.close(ctx)
			return nil, err
		}
		rt.logger.Info("overrides imported",
			slog.String("file", path),
			slog.Int("count", len(overrides)),
		)
	}

	return rt, nil
}

func newSender(cfg config.Mail) (mailer.Sender, string, error) {
	switch cfg.Provider {
	case config.ProviderSMTP:
		s, err := smtp.New(cfg.SMTP)
		if err != nil {
			return nil, "", err
		}
		return s, s.Address(), nil
	case config.ProviderResend:
		s, err := resend.New(cfg.Resend)
		if err != nil {
			return nil, "", err
		}
		return s, cfg.Resend.SenderEmail, nil
	case config.ProviderMailgun:
		s, err := mailgun.New(cfg.Mailgun)
		if err != nil {
			return nil, "", err
		}
		return s, cfg.Mailgun.SenderEmail, nil
	case config.ProviderHTTP:
		return httpapi.NewClient(cfg.RemoteURL), "", nil
	default:
		return nil, "", fmt.Errorf("%w: %q", config.ErrInvalidProvider, cfg.Provider)
	}
}

// openStore uses Redis when configured so overrides survive restarts and
// are shared between instances.
func (rt *runtime) openStore(ctx context.Context) error {
	if !rt.cfg.Redis.Enabled() {
		rt.store = recipient.NewMemoryStore()
		return nil
	}

	opts := append(rt.cfg.Redis.Options(), redis.WithLogger(rt.logger))
	client, err := redis.Open(ctx, rt.cfg.Redis.URL, opts...)
	if err != nil {
		return fmt.Errorf("open redis: %w", err)
	}
	rt.store = recipient.NewStore(cache.NewRedis[recipient.Override](client, nil, cache.WithPrefix(overridesPrefix)))
	rt.checks["redis"] = redis.Healthcheck(client)
	rt.closers = append(rt.closers, redis.Shutdown(client))
	return nil
}

func (rt *runtime) engine(opts ...dispatch.Option) *dispatch.Engine {
	d := rt.cfg.Dispatch
	base := []dispatch.Option{
		dispatch.WithLogger(rt.logger),
		dispatch.WithPauseMode(d.Mode()),
		dispatch.WithDelay(d.SendDelay),
		dispatch.WithStore(rt.store),
		dispatch.WithBuilder(attachment.NewBuilder(
			attachment.WithMaxFileSize(d.MaxFileSize),
			attachment.WithLogger(rt.logger),
		)),
	}
	if d.FallbackSubject != "" {
		base = append(base, dispatch.WithFallbackSubject(d.FallbackSubject))
	}

	e := dispatch.New(rt.mailer, append(base, opts...)...)
	if d.GlobalEmail != "" {
		e.SetGlobalEmail(d.GlobalEmail)
	}
	if d.Subject != "" {
		e.SetSubject(d.Subject)
	}
	if d.Body != "" {
		e.SetBody(d.Body)
	}
	return e
}

func (rt *runtime) close(ctx context.Context) error {
	var errs []error
	for _, fn := range rt.closers {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
