package smtp

import "time"

// Config holds SMTP provider configuration. Defaults target Gmail.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Host           string        `env:"EMAIL_HOST" envDefault:"smtp.gmail.com"`
	Port           int           `env:"EMAIL_PORT" envDefault:"587"`
	Username       string        `env:"EMAIL_USER"`
	Password       string        `env:"EMAIL_PASSWORD"`
	SenderName     string        `env:"EMAIL_FROM_NAME"`
	ConnectTimeout time.Duration `env:"EMAIL_CONNECT_TIMEOUT" envDefault:"10s"`
	SendTimeout    time.Duration `env:"EMAIL_SEND_TIMEOUT" envDefault:"30s"`
}

// Default values applied to zero fields.
const (
	DefaultHost           = "smtp.gmail.com"
	DefaultPort           = 587
	DefaultConnectTimeout = 10 * time.Second
	DefaultSendTimeout    = 30 * time.Second
)

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.SendTimeout == 0 {
		c.SendTimeout = DefaultSendTimeout
	}
}
