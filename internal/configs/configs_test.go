package configs

import (
	"testing"
)

// clearEnv blanks every variable LoadConfig reads so tests are hermetic.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"ENVIRONMENT", "HOST", "PORT", "STATIC_DIR", "ALLOWED_ORIGINS",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "AI_MODEL", "AI_MAX_TOKENS", "AI_QUERY_LIMIT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.Host != "" {
		t.Errorf("Host = %q, want all interfaces (empty)", cfg.Host)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.StaticDir != "./public" {
		t.Errorf("StaticDir = %q, want ./public", cfg.StaticDir)
	}
	if cfg.AIModel != "gpt-4o-mini" {
		t.Errorf("AIModel = %q, want gpt-4o-mini", cfg.AIModel)
	}
	if cfg.AIMaxTokens != 150 {
		t.Errorf("AIMaxTokens = %d, want 150", cfg.AIMaxTokens)
	}
	if cfg.AIQueryLimit != 4 {
		t.Errorf("AIQueryLimit = %d, want 4", cfg.AIQueryLimit)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("AllowedOrigins = %v, want empty", cfg.AllowedOrigins)
	}
}

func TestLoadConfigInvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "notaport")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() with invalid PORT should fail")
	}

	t.Setenv("PORT", "70000")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() with out-of-range PORT should fail")
	}
}

func TestLoadConfigOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}

func TestLoadConfigRequiresKeyOutsideDevelopment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() in production without OPENAI_API_KEY should fail")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")

	if _, err := LoadConfig(); err != nil {
		t.Errorf("LoadConfig() with key set error = %v", err)
	}
}

func TestLoadConfigAIQueryLimit(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_QUERY_LIMIT", "2")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.AIQueryLimit != 2 {
		t.Errorf("AIQueryLimit = %d, want 2", cfg.AIQueryLimit)
	}

	t.Setenv("AI_QUERY_LIMIT", "-1")
	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() with negative AI_QUERY_LIMIT should fail")
	}
}
