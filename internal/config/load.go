package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables carrying secrets and deployment overrides.
const (
	EnvTwitterBearerToken = "TWITTER_BEARER_TOKEN"
	EnvTwilioAccountSID   = "TWILIO_ACCOUNT_SID"
	EnvTwilioAuthToken    = "TWILIO_AUTH_TOKEN"
	EnvTwilioPhoneNumber  = "TWILIO_PHONE_NUMBER"
	EnvApprovedNumbers    = "APPROVED_PHONE_NUMBERS"
	EnvGeminiAPIKeys      = "GEMINI_API_KEYS"
	EnvDBPath             = "CAPTIONQ_DB_PATH"
	EnvConfigPath         = "CAPTIONQ_CONFIG"
)

// DefaultPath is read when EnvConfigPath is unset.
const DefaultPath = "config.yaml"

// Path returns the config file location from the environment or DefaultPath.
func Path() string {
	if v := os.Getenv(EnvConfigPath); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads the YAML file at path, applies environment overrides and validates the result.
// A .env file next to the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvTwitterBearerToken); v != "" {
		cfg.Twitter.BearerToken = v
	}
	if v := os.Getenv(EnvTwilioAccountSID); v != "" {
		cfg.Twilio.AccountSID = v
	}
	if v := os.Getenv(EnvTwilioAuthToken); v != "" {
		cfg.Twilio.AuthToken = v
	}
	if v := os.Getenv(EnvTwilioPhoneNumber); v != "" {
		cfg.Twilio.PhoneNumber = v
	}
	if v := splitList(os.Getenv(EnvApprovedNumbers)); len(v) > 0 {
		cfg.SMS.ApprovedNumbers = v
	}
	if v := splitList(os.Getenv(EnvGeminiAPIKeys)); len(v) > 0 {
		cfg.Gemini.APIKeys = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.Storage.Driver = DriverSQLite
		cfg.Storage.Path = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
