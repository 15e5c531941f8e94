package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	DBURL    string `env:"DB_URL"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret      string `env:"JWT_SECRET"`
	JWTExpiryHours int    `env:"JWT_EXPIRY_HOURS" envDefault:"24"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	RecurringCron   string `env:"RECURRING_CRON" envDefault:"0 6 * * *"`
	CronSecret      string `env:"CRON_SECRET"`
	ReferralTTLDays int    `env:"REFERRAL_TTL_DAYS" envDefault:"30"`

	Twilio   TwilioConfig
	Calendar CalendarConfig
	Mail     MailConfig
}

type TwilioConfig struct {
	AccountSID     string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken      string `env:"TWILIO_AUTH_TOKEN"`
	PhoneNumber    string `env:"TWILIO_PHONE_NUMBER"`
	WhatsAppNumber string `env:"TWILIO_WHATSAPP_NUMBER"`
}

func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != ""
}

type CalendarConfig struct {
	APIURL  string        `env:"CALENDAR_API_URL"`
	APIKey  string        `env:"CALENDAR_API_KEY"`
	Timeout time.Duration `env:"CALENDAR_TIMEOUT" envDefault:"10s"`
}

type MailConfig struct {
	APIURL  string        `env:"MAIL_API_URL"`
	APIKey  string        `env:"MAIL_API_KEY"`
	From    string        `env:"MAIL_FROM" envDefault:"no-reply@vertigo.app"`
	Timeout time.Duration `env:"MAIL_TIMEOUT" envDefault:"10s"`
}

func (c Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

func (c Config) ReferralTTL() time.Duration {
	return time.Duration(c.ReferralTTLDays) * 24 * time.Hour
}

// ValidateServe checks what the HTTP API cannot run without.
func (c Config) ValidateServe() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required to serve the API")
	}
	return nil
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
