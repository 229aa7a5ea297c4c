package mailer

// Config holds mailer configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	FallbackSubject string `env:"MAILER_FALLBACK_SUBJECT" envDefault:"Notas Fiscais"`
	DefaultLayout   string `env:"MAILER_DEFAULT_LAYOUT" envDefault:"base.html"`
}

const (
	defaultFallbackSubject = "Notas Fiscais"
	defaultLayout          = "base.html"
)

func (c *Config) applyDefaults() {
	if c.FallbackSubject == "" {
		c.FallbackSubject = defaultFallbackSubject
	}
	if c.DefaultLayout == "" {
		c.DefaultLayout = defaultLayout
	}
}
