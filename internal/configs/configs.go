/*
Package configs loads and parses the application's configuration.

All settings come from environment variables, with development-friendly
defaults: the listen host/port, CORS allowed origins, the static asset
directory, and the completion service credentials and limits.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig contains all configuration parameters required by the relay.
type AppConfig struct {
	// General Server Settings
	Environment string
	Host        string
	Port        int
	StaticDir   string

	// Security Settings
	AllowedOrigins []string

	// AI Completion Service Settings
	AIAPIKey     string
	AIBaseURL    string
	AIModel      string
	AIMaxTokens  int
	AIQueryLimit int
}

// LoadConfig reads the application configuration from environment variables,
// applying defaults and validating values where needed.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Host defaults to all interfaces.
	cfg.Host = os.Getenv("HOST")

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "3000"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the valid range (1-65535)", port)
	}
	cfg.Port = port

	cfg.StaticDir = os.Getenv("STATIC_DIR")
	if cfg.StaticDir == "" {
		cfg.StaticDir = "./public"
	}

	// --- Security Settings ---
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// --- AI Completion Service Settings ---
	cfg.AIAPIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.AIAPIKey == "" && cfg.Environment != "development" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required in %s environment", cfg.Environment)
	}

	cfg.AIBaseURL = os.Getenv("OPENAI_BASE_URL")

	cfg.AIModel = os.Getenv("AI_MODEL")
	if cfg.AIModel == "" {
		cfg.AIModel = "gpt-4o-mini"
	}

	maxTokensStr := os.Getenv("AI_MAX_TOKENS")
	if maxTokensStr == "" {
		maxTokensStr = "150"
	}
	maxTokens, err := strconv.Atoi(maxTokensStr)
	if err != nil || maxTokens <= 0 {
		return nil, fmt.Errorf("invalid AI_MAX_TOKENS environment variable: %q", maxTokensStr)
	}
	cfg.AIMaxTokens = maxTokens

	queryLimitStr := os.Getenv("AI_QUERY_LIMIT")
	if queryLimitStr == "" {
		queryLimitStr = "4"
	}
	queryLimit, err := strconv.Atoi(queryLimitStr)
	if err != nil || queryLimit < 0 {
		return nil, fmt.Errorf("invalid AI_QUERY_LIMIT environment variable: %q", queryLimitStr)
	}
	cfg.AIQueryLimit = queryLimit

	return cfg, nil
}
