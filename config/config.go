package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	DBURL     string `env:"DB_URL,required,notEmpty"`
	RedisAddr string `env:"REDIS_ADDR"` // empty: in-process revocation ledger

	AccessTokenSecret  string `env:"ACCESS_TOKEN_SECRET,required,notEmpty"`
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET,required,notEmpty"`

	AccessExpiryMin  int `env:"ACCESS_TOKEN_EXPIRY" envDefault:"15"`
	RefreshExpiryMin int `env:"REFRESH_TOKEN_EXPIRY" envDefault:"10080"`
	VerifyExpiryMin  int `env:"VERIFY_TOKEN_EXPIRY" envDefault:"1440"`
	ResetExpiryMin   int `env:"RESET_TOKEN_EXPIRY" envDefault:"60"`

	ClientURL      string   `env:"CLIENT_URL,required,notEmpty"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	MailHost string `env:"MAIL_HOST"`
	MailPort int    `env:"MAIL_PORT" envDefault:"587"`
	MailUser string `env:"MAIL_USER"`
	MailPass string `env:"MAIL_PASS"`
	MailFrom string `env:"MAIL_FROM"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
