package mailgun

// Config holds Mailgun provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey      string `env:"MAILGUN_API_KEY"`
	Domain      string `env:"MAILGUN_DOMAIN"`
	SenderEmail string `env:"MAILGUN_FROM_EMAIL"`
	SenderName  string `env:"MAILGUN_FROM_NAME"`
	// Region selects the API base: "us" (default) or "eu".
	Region string `env:"MAILGUN_REGION" envDefault:"us"`
	// APIBase overrides the endpoint derived from Region.
	APIBase string `env:"MAILGUN_API_BASE"`
}

// EU region API base.
const apiBaseEU = "https://api.eu.mailgun.net/v3"
