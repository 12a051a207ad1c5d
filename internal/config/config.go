package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string `mapstructure:"PORT"`
	GinMode                          string `mapstructure:"GIN_MODE"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	FirebaseStorageBucket            string `mapstructure:"FIREBASE_STORAGE_BUCKET"`
	ClientURL                        string `mapstructure:"CLIENT_URL"`
	PreviewProxyURL                  string `mapstructure:"PREVIEW_PROXY_URL"`
	AppBaseURL                       string `mapstructure:"APP_BASE_URL"`
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("PREVIEW_PROXY_URL", "https://api.allorigins.win/raw?url=")
	viper.SetDefault("APP_BASE_URL", "http://localhost:3000")

	// Bind environment variables
	viper.BindEnv("PORT")
	viper.BindEnv("GIN_MODE")
	viper.BindEnv("FIREBASE_PROJECT_ID")
	viper.BindEnv("GOOGLE_APPLICATION_CREDENTIALS")
	viper.BindEnv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64")
	viper.BindEnv("FIREBASE_STORAGE_BUCKET")
	viper.BindEnv("CLIENT_URL")
	viper.BindEnv("PREVIEW_PROXY_URL")
	viper.BindEnv("APP_BASE_URL")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}

	return &cfg, nil
}

// HasCredentials reports whether any Firebase credential source is configured.
// Missing credentials are a configuration error but not fatal at startup:
// the server starts degraded and /health reports it.
func (c *Config) HasCredentials() bool {
	return c.GoogleApplicationCredentials != "" || c.FirebaseServiceAccountJSONBase64 != ""
}
