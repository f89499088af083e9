// Package config loads process settings from a .env file and the environment.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/core"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/infrastructure/devops"
	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver          string
	DSN               string
	DBMaxConnections  int
	DBConfigParameter string
	DBName            string

	Port          string
	FrontendURL   string
	SigningSecret string

	// CheckInRateLimit is requests per second per client on the public
	// check-in endpoints; 0 disables the limit.
	CheckInRateLimit float64
	CheckInBurst     int
	TrustedProxies   []string

	LogLevel string
	LogJSON  bool

	ExportBucket     string
	ExportRecipients []string
	ExportSchedule   string // cron expression; empty disables periodic exports
	MailSender       string

	SlackBotToken     string
	SlackInfoChannel  string
	SlackErrorChannel string
}

// Load reads files (default ".env") when they exist, then the environment.
// Variables already set in the environment win over file values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	maxConnections, err := intEnv("DB_MAX_CONNECTIONS", 10)
	if err != nil {
		return nil, err
	}
	logJSON, err := boolEnv("LOG_JSON", false)
	if err != nil {
		return nil, err
	}
	checkInRate, err := floatEnv("CHECKIN_RATE_LIMIT", 5)
	if err != nil {
		return nil, err
	}
	checkInBurst, err := intEnv("CHECKIN_RATE_BURST", 10)
	if err != nil {
		return nil, err
	}

	return &Config{
		DBDriver:          env("DB_DRIVER", core.DriverMySQL),
		DSN:               os.Getenv("DSN"),
		DBMaxConnections:  maxConnections,
		DBConfigParameter: os.Getenv("DB_CONFIG_PARAMETER"),
		DBName:            env("DB_NAME", "alumnihub"),
		Port:              env("PORT", "1337"),
		FrontendURL:       env("FRONTEND_URL", "http://localhost:3000"),
		SigningSecret:     os.Getenv("ALUMNIHUB_SIGNING_SECRET"),
		CheckInRateLimit:  checkInRate,
		CheckInBurst:      checkInBurst,
		TrustedProxies:    list(os.Getenv("TRUSTED_PROXIES")),
		LogLevel:          env("LOG_LEVEL", "info"),
		LogJSON:           logJSON,
		ExportBucket:      os.Getenv("EXPORT_BUCKET"),
		ExportRecipients:  list(os.Getenv("EXPORT_MAIL_TO")),
		ExportSchedule:    os.Getenv("EXPORT_SCHEDULE"),
		MailSender:        os.Getenv("MAIL_SENDER"),
		SlackBotToken:     os.Getenv("SLACK_BOT_TOKEN"),
		SlackInfoChannel:  os.Getenv("SLACK_INFO_CHANNEL"),
		SlackErrorChannel: os.Getenv("SLACK_ERROR_CHANNEL"),
	}, nil
}

// DatabaseDSN returns DSN, or resolves credentials from the SSM parameter
// named by DB_CONFIG_PARAMETER when DSN is empty.
func (c *Config) DatabaseDSN(ctx context.Context) (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	if c.DBConfigParameter == "" {
		return "", fmt.Errorf("neither DSN nor DB_CONFIG_PARAMETER is set")
	}
	entries, err := devops.LoadDBConfig(ctx, c.DBConfigParameter)
	if err != nil {
		return "", err
	}
	return devops.ResolveDSN(entries, c.DBName, c.DBDriver)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func list(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
