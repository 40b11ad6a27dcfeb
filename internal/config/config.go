/**
 * @description
 * This package handles the configuration management for the service. It uses
 * the Viper library to read configuration from environment variables, with
 * an optional .env file for local development.
 *
 * @notes
 * - Dwolla API credentials are deliberately NOT environment configuration;
 *   they arrive over POST /api/config only, so they never live in process
 *   configuration or shell history.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */
package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Dwolla environment endpoints.
const (
	sandboxAPIBaseURL    = "https://api-sandbox.dwolla.com"
	productionAPIBaseURL = "https://api.dwolla.com"
)

// Config holds all the configuration variables for the dashboard backend.
// These values are loaded from environment variables.
type Config struct {
	ServerPort         string `mapstructure:"SERVER_PORT"`
	DwollaEnvironment  string `mapstructure:"DWOLLA_ENVIRONMENT"`
	DwollaAPIBaseURL   string `mapstructure:"DWOLLA_API_BASE_URL"`
	DwollaTokenURL     string `mapstructure:"DWOLLA_TOKEN_URL"`
	WebhookSecret      string `mapstructure:"DWOLLA_WEBHOOK_SECRET"`
	HTTPTimeoutSeconds int    `mapstructure:"HTTP_TIMEOUT_SECONDS"`
	CORSOrigins        string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// CORSAllowedOrigins is CORSOrigins split and trimmed.
	CORSAllowedOrigins []string `mapstructure:"-"`
}

// LoadConfig reads configuration from environment variables from the given
// path. It uses Viper to automatically bind environment variables to the
// Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "3001")
	viper.SetDefault("DWOLLA_ENVIRONMENT", "sandbox")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DWOLLA_ENVIRONMENT")
	_ = viper.BindEnv("DWOLLA_API_BASE_URL")
	_ = viper.BindEnv("DWOLLA_TOKEN_URL")
	_ = viper.BindEnv("DWOLLA_WEBHOOK_SECRET")
	_ = viper.BindEnv("HTTP_TIMEOUT_SECONDS")
	_ = viper.BindEnv("CORS_ALLOWED_ORIGINS")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
		err = nil
	}

	if err = viper.Unmarshal(&config); err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}

	config.DwollaEnvironment = strings.ToLower(strings.TrimSpace(config.DwollaEnvironment))
	if config.DwollaAPIBaseURL == "" {
		switch config.DwollaEnvironment {
		case "sandbox":
			config.DwollaAPIBaseURL = sandboxAPIBaseURL
		case "production":
			config.DwollaAPIBaseURL = productionAPIBaseURL
		default:
			return config, fmt.Errorf("unknown DWOLLA_ENVIRONMENT %q", config.DwollaEnvironment)
		}
	}
	config.DwollaAPIBaseURL = strings.TrimRight(config.DwollaAPIBaseURL, "/")
	if config.DwollaTokenURL == "" {
		config.DwollaTokenURL = config.DwollaAPIBaseURL + "/token"
	}

	if config.HTTPTimeoutSeconds <= 0 {
		config.HTTPTimeoutSeconds = 30
	}

	for _, origin := range strings.Split(config.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			config.CORSAllowedOrigins = append(config.CORSAllowedOrigins, origin)
		}
	}
	if len(config.CORSAllowedOrigins) == 0 {
		config.CORSAllowedOrigins = []string{"*"}
	}

	return
}
