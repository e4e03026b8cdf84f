// Package config loads the application configuration from the environment.
// File: config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MinSessionSecretLength is the minimum length of the cookie signing secret.
const MinSessionSecretLength = 32

// Mail providers understood by the notifier wiring in main.
const (
	MailProviderNoop   = "noop"
	MailProviderSMTP   = "smtp"
	MailProviderResend = "resend"
)

// Config holds every setting the site reads at startup.
type Config struct {
	Addr   string `env:"CHURCH_ADDR" envDefault:":8080"`
	Env    string `env:"CHURCH_ENV" envDefault:"development"`
	AppURL string `env:"CHURCH_APP_URL" envDefault:"http://localhost:8080"`

	SessionSecret string        `env:"CHURCH_SESSION_SECRET,required"`
	SessionName   string        `env:"CHURCH_SESSION_NAME" envDefault:"churchsession"`
	SessionMaxAge time.Duration `env:"CHURCH_SESSION_MAX_AGE" envDefault:"168h"`

	DBPath       string `env:"CHURCH_DB_PATH" envDefault:"./data/church.db"`
	TemplatesDir string `env:"CHURCH_TEMPLATES_DIR" envDefault:"./templates"`
	StaticDir    string `env:"CHURCH_STATIC_DIR" envDefault:"./static"`
	SermonsDir   string `env:"CHURCH_SERMONS_DIR" envDefault:"./static/uploads/sermons"`
	PostersDir   string `env:"CHURCH_POSTERS_DIR" envDefault:"./static/uploads/posters"`
	StaffDir     string `env:"CHURCH_STAFF_DIR" envDefault:"./static/images/people"`
	LogDir       string `env:"CHURCH_LOG_DIR" envDefault:"./logs"`

	MaxUploadMB     int64 `env:"CHURCH_MAX_UPLOAD_MB" envDefault:"64"`
	StaffImageMaxPx int   `env:"CHURCH_STAFF_IMAGE_MAX_PX" envDefault:"800"`

	ChurchName string `env:"CHURCH_NAME" envDefault:"Harvest Assemblies of Christ Global Church"`

	// used only by the bootstrap command
	AdminUsername string `env:"CHURCH_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"CHURCH_ADMIN_PASSWORD" envDefault:"church123"`

	MailProvider string `env:"CHURCH_MAIL_PROVIDER" envDefault:"noop"`
	MailFrom     string `env:"CHURCH_MAIL_FROM" envDefault:"noreply@example.com"`
	SMTPHost     string `env:"CHURCH_SMTP_HOST" envDefault:"smtp.example.com"`
	SMTPPort     int    `env:"CHURCH_SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"CHURCH_SMTP_USERNAME"`
	SMTPPassword string `env:"CHURCH_SMTP_PASSWORD"`
	ResendAPIKey string `env:"CHURCH_RESEND_API_KEY"`

	CloudWatchEnabled bool   `env:"CHURCH_CLOUDWATCH_ENABLED" envDefault:"false"`
	MetricsNamespace  string `env:"CHURCH_METRICS_NAMESPACE" envDefault:"ChurchSite"`
	AWSRegion         string `env:"AWS_REGION" envDefault:"ap-southeast-2"`
	XRayEnabled       bool   `env:"CHURCH_XRAY_ENABLED" envDefault:"false"`
	XRayDaemonAddr    string `env:"CHURCH_XRAY_DAEMON_ADDR" envDefault:"127.0.0.1:2000"`

	// host[:port] values allowed to POST cross-origin
	TrustedOrigins []string `env:"CHURCH_TRUSTED_ORIGINS" envSeparator:","`
}

// IsProduction reports whether the site runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// MaxUploadBytes returns the per-request upload ceiling.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// Load reads an optional .env file and then parses the environment.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("CHURCH_SESSION_SECRET must be at least %d bytes long, got %d bytes",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("CHURCH_MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	switch c.MailProvider {
	case MailProviderNoop:
	case MailProviderSMTP:
		if c.SMTPHost == "" {
			return fmt.Errorf("CHURCH_SMTP_HOST is required for the smtp mail provider")
		}
	case MailProviderResend:
		if c.ResendAPIKey == "" {
			return fmt.Errorf("CHURCH_RESEND_API_KEY is required for the resend mail provider")
		}
	default:
		return fmt.Errorf("unknown CHURCH_MAIL_PROVIDER %q", c.MailProvider)
	}
	return nil
}
