package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Mail backends selectable via MAIL_BACKEND.
const (
	MailBackendConsole = "console"
	MailBackendSMTP    = "smtp"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	DatabaseURL string
	HTTPAddr    string
	Location    *time.Location
	MediaRoot   string

	DefaultFrom  string
	MailBackend  string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	DispatchInterval  time.Duration
	DispatchBatchSize int
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		HTTPAddr:     strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		MediaRoot:    strings.TrimSpace(os.Getenv("MEDIA_ROOT")),
		DefaultFrom:  strings.TrimSpace(os.Getenv("DEFAULT_FROM_EMAIL")),
		MailBackend:  strings.TrimSpace(os.Getenv("MAIL_BACKEND")),
		SMTPHost:     strings.TrimSpace(os.Getenv("SMTP_HOST")),
		SMTPUser:     strings.TrimSpace(os.Getenv("SMTP_USER")),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "deadlines.db"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.MediaRoot == "" {
		cfg.MediaRoot = "media"
	}
	if cfg.DefaultFrom == "" {
		cfg.DefaultFrom = "deadlines@example.com"
	}
	if cfg.MailBackend == "" {
		cfg.MailBackend = MailBackendConsole
	}
	if cfg.MailBackend != MailBackendConsole && cfg.MailBackend != MailBackendSMTP {
		return cfg, fmt.Errorf("MAIL_BACKEND must be %q or %q", MailBackendConsole, MailBackendSMTP)
	}
	if cfg.SMTPHost == "" {
		cfg.SMTPHost = "localhost"
	}

	port, err := parseIntEnv("SMTP_PORT", 25)
	if err != nil {
		return cfg, err
	}
	cfg.SMTPPort = port

	loc, err := loadLocation()
	if err != nil {
		return cfg, err
	}
	cfg.Location = loc

	interval, err := parseDurationEnv("DISPATCH_INTERVAL", time.Minute)
	if err != nil {
		return cfg, err
	}
	if interval <= 0 {
		return cfg, fmt.Errorf("DISPATCH_INTERVAL must be positive")
	}
	cfg.DispatchInterval = interval

	batch, err := parseIntEnv("DISPATCH_BATCH_SIZE", 200)
	if err != nil {
		return cfg, err
	}
	if batch <= 0 {
		return cfg, fmt.Errorf("DISPATCH_BATCH_SIZE must be positive")
	}
	cfg.DispatchBatchSize = batch

	return cfg, nil
}

func loadLocation() (*time.Location, error) {
	name := strings.TrimSpace(os.Getenv("TIME_ZONE"))
	if name == "" {
		name = "Africa/Windhoek"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("TIME_ZONE %q: %w", name, err)
	}
	return loc, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", key, raw, err)
	}
	return v, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", key, raw, err)
	}
	return d, nil
}
