package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName     string
	AppEnv      string
	AppPort     string
	AppBaseURL  string
	DatabaseURL string
	RedisURL    string
	NATSURL     string
	JWTSecret   string
	SessionTTL  time.Duration
	InviteTTL   time.Duration
	OtpTTL      time.Duration
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	SMTPFrom    string
	SeedEnabled bool
	SeedToken   string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TRANSIFY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Transify API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.base_url", "http://localhost:3000")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("invite.ttl", "48h")
	v.SetDefault("otp.ttl", "10m")
	v.SetDefault("smtp.port", 587)

	sessionTTL, err := parseTTL(v.GetString("session.ttl"), "session ttl")
	if err != nil {
		return Config{}, err
	}
	inviteTTL, err := parseTTL(v.GetString("invite.ttl"), "invite ttl")
	if err != nil {
		return Config{}, err
	}
	otpTTL, err := parseTTL(v.GetString("otp.ttl"), "otp ttl")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:     v.GetString("app.name"),
		AppEnv:      v.GetString("app.env"),
		AppPort:     v.GetString("app.port"),
		AppBaseURL:  v.GetString("app.base_url"),
		DatabaseURL: v.GetString("database.url"),
		RedisURL:    v.GetString("redis.url"),
		NATSURL:     v.GetString("nats.url"),
		JWTSecret:   v.GetString("jwt.secret"),
		SessionTTL:  sessionTTL,
		InviteTTL:   inviteTTL,
		OtpTTL:      otpTTL,
		SMTPHost:    v.GetString("smtp.host"),
		SMTPPort:    v.GetInt("smtp.port"),
		SMTPUser:    v.GetString("smtp.user"),
		SMTPPass:    v.GetString("smtp.pass"),
		SMTPFrom:    v.GetString("smtp.from"),
		SeedEnabled: v.GetBool("seed.enabled"),
		SeedToken:   v.GetString("seed.token"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

func parseTTL(raw, label string) (time.Duration, error) {
	ttl, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", label, err)
	}
	return ttl, nil
}
