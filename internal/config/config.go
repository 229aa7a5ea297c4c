// Package config loads nfmailer settings from the environment and overlays
// command-line values on top.
package config

import (
	"errors"
	"fmt"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"

	"github.com/rjcompany/nfmailer/internal/dispatch"
	"github.com/rjcompany/nfmailer/pkg/logger"
	"github.com/rjcompany/nfmailer/pkg/mailer"
	"github.com/rjcompany/nfmailer/pkg/mailer/mailgun"
	"github.com/rjcompany/nfmailer/pkg/mailer/resend"
	"github.com/rjcompany/nfmailer/pkg/mailer/smtp"
	"github.com/rjcompany/nfmailer/pkg/redis"
	"github.com/rjcompany/nfmailer/pkg/storage"
)

// Mail providers.
const (
	ProviderSMTP    = "smtp"
	ProviderResend  = "resend"
	ProviderMailgun = "mailgun"
	ProviderHTTP    = "http"
)

var (
	ErrLoad            = errors.New("config: failed to load environment")
	ErrInvalidProvider = errors.New("config: unknown mail provider")
	ErrOverlay         = errors.New("config: failed to apply overrides")
)

// Config is the complete application configuration.
type Config struct {
	HTTP     HTTP
	Log      logger.Config
	Mail     Mail
	Dispatch Dispatch
	Inbox    Inbox
	Redis    redis.Config
	Storage  storage.Config
}

// HTTP configures the control API server.
type HTTP struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxUploadSize   int64         `env:"HTTP_MAX_UPLOAD_SIZE" envDefault:"104857600"`
}

// Mail selects and configures the transport.
type Mail struct {
	Provider string `env:"MAIL_PROVIDER" envDefault:"smtp"`
	// RemoteURL is the base URL of a remote /api/send-email endpoint,
	// used by the http provider.
	RemoteURL string `env:"MAIL_API_URL"`

	Mailer  mailer.Config
	SMTP    smtp.Config
	Resend  resend.Config
	Mailgun mailgun.Config
}

// Dispatch configures the batch engine.
type Dispatch struct {
	PauseMode       string        `env:"DISPATCH_PAUSE_MODE" envDefault:"reset"`
	SendDelay       time.Duration `env:"DISPATCH_SEND_DELAY" envDefault:"0s"`
	MaxFileSize     int64         `env:"DISPATCH_MAX_FILE_SIZE" envDefault:"0"`
	GlobalEmail     string        `env:"DISPATCH_GLOBAL_EMAIL"`
	Subject         string        `env:"DISPATCH_SUBJECT"`
	Body            string        `env:"DISPATCH_BODY"`
	FallbackSubject string        `env:"DISPATCH_FALLBACK_SUBJECT"`
	OverridesFile   string        `env:"DISPATCH_OVERRIDES_FILE"`
	ReportLanguage  string        `env:"REPORT_LANGUAGE" envDefault:"pt-BR"`
}

// Mode returns the configured pause mode.
func (d Dispatch) Mode() dispatch.PauseMode {
	return dispatch.ParsePauseMode(d.PauseMode)
}

// Inbox configures the watched ingestion directory.
type Inbox struct {
	Dir      string        `env:"INBOX_DIR"`
	Debounce time.Duration `env:"INBOX_DEBOUNCE" envDefault:"500ms"`
}

// Load parses the environment.
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses the given environment map, or the process environment
// when environ is nil.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Join(ErrLoad, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Overlay copies every non-zero field of overrides onto cfg.
func Overlay(cfg Config, overrides Config) (Config, error) {
	if err := mergo.Merge(&cfg, overrides, mergo.WithOverride); err != nil {
		return Config{}, errors.Join(ErrOverlay, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Mail.Provider {
	case ProviderSMTP, ProviderResend, ProviderMailgun:
	case ProviderHTTP:
		if c.Mail.RemoteURL == "" {
			return fmt.Errorf("%w: %s requires MAIL_API_URL", ErrInvalidProvider, ProviderHTTP)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidProvider, c.Mail.Provider)
	}
	return nil
}
