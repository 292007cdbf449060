package mailgate

import (
	"time"

	"github.com/mkarlsen/mailgate/env"
)

/*
ENV-ONLY CONFIG (documented in README):
  Required:
    SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS
    MAIL_TO
  Optional:
    SMTP_SSL (default false)
    LISTEN_ADDR (default ":3000")
    MAIL_FROM (default SMTP_USER)
    SUBJECT_PREFIX (default "[Contact]")
    SITE_DOMAIN (default "localhost")
    ALLOWED_ORIGINS="https://a.com,https://b.com" (empty = no CORS checks)
    ALLOW_JSON (default "true")
    ALLOW_FORM (default "true")
    MAX_BODY_KB (default 64)
    RATE_LIMIT (default 5)
    RATE_WINDOW_MS (default 60000)
    RATE_SWEEP_INTERVAL_MS (default 300000)
*/

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	SSL  bool
}

type Config struct {
	ListenAddr     string
	To             string
	FromAddr       string
	SubjectPrefix  string
	SiteDomain     string
	AllowedOrigins []string
	AllowJSON      bool
	AllowForm      bool
	MaxBodyKB      int

	RateLimit     int
	RateWindow    time.Duration
	SweepInterval time.Duration

	SMTP SMTPConfig
}

// LoadConfig reads the full configuration from the environment. Missing
// required values are fatal at startup, never at request time.
func LoadConfig() *Config {
	smtpCfg := SMTPConfig{
		Host: env.MustEnv("SMTP_HOST"),
		Port: env.MustEnvInt("SMTP_PORT"),
		User: env.MustEnv("SMTP_USER"),
		Pass: env.MustEnv("SMTP_PASS"),
		SSL:  env.EnvBool("SMTP_SSL", false),
	}

	return &Config{
		ListenAddr:     env.Env("LISTEN_ADDR", ":3000"),
		To:             env.MustEnv("MAIL_TO"),
		FromAddr:       env.Env("MAIL_FROM", smtpCfg.User),
		SubjectPrefix:  env.Env("SUBJECT_PREFIX", "[Contact]"),
		SiteDomain:     env.Env("SITE_DOMAIN", "localhost"),
		AllowedOrigins: env.EnvList("ALLOWED_ORIGINS"),
		AllowJSON:      env.EnvBool("ALLOW_JSON", true),
		AllowForm:      env.EnvBool("ALLOW_FORM", true),
		MaxBodyKB:      env.EnvInt("MAX_BODY_KB", 64),
		RateLimit:      env.EnvInt("RATE_LIMIT", DefaultRateLimit),
		RateWindow:     env.EnvMillis("RATE_WINDOW_MS", DefaultRateWindow),
		SweepInterval:  env.EnvMillis("RATE_SWEEP_INTERVAL_MS", DefaultSweepInterval),
		SMTP:           smtpCfg,
	}
}
