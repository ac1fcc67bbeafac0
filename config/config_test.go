package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoadValidConfig(t *testing.T) {
	_ = os.Setenv("PORT", "8002")
	_ = os.Setenv("ADDRESS", "127.0.0.1")
	_ = os.Setenv("ENV", "dev")
	_ = os.Setenv("LOG_LEVEL", "info")
	_ = os.Setenv("DATA_DIR", "/srv/medisync/data")
	defer cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8002" {
		t.Errorf("Expected port 8002, got %s", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Expected address 127.0.0.1, got %s", cfg.Address)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Expected env dev, got %s", cfg.Env)
	}
	if cfg.DataDir != "/srv/medisync/data" {
		t.Errorf("Expected data dir /srv/medisync/data, got %s", cfg.DataDir)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	cleanupEnv()
	defer cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Expected default env dev, got %s", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.DataDir != "data" {
		t.Errorf("Expected default data dir, got %s", cfg.DataDir)
	}
	if cfg.APIKey != DemoAPIKey {
		t.Errorf("Expected demo API key outside production, got %s", cfg.APIKey)
	}
	if cfg.DataCheckIntervalMinutes != 60 {
		t.Errorf("Expected default data check interval 60, got %d", cfg.DataCheckIntervalMinutes)
	}
	if cfg.RateLimitRate != 3 || cfg.RateLimitCapacity != 1000 {
		t.Errorf("Expected default rate limit 3/1000, got %v/%d", cfg.RateLimitRate, cfg.RateLimitCapacity)
	}
}

func TestInvalidPort(t *testing.T) {
	testCases := []struct {
		port     string
		expected string
	}{
		{"abc", "PORT must be a valid number"},
		{"0", "PORT must be between 1 and 65535"},
		{"65536", "PORT must be between 1 and 65535"},
		{"80", "PORT 80 is privileged"},
	}

	for _, tc := range testCases {
		t.Run(tc.port, func(t *testing.T) {
			cleanupEnv()
			defer cleanupEnv()
			_ = os.Setenv("PORT", tc.port)

			_, err := Load()
			if err == nil {
				t.Fatalf("Expected error for port %s, got nil", tc.port)
			}
			if !strings.Contains(err.Error(), tc.expected) {
				t.Errorf("Expected error containing %q, got %v", tc.expected, err)
			}
		})
	}
}

func TestInvalidAddress(t *testing.T) {
	cleanupEnv()
	defer cleanupEnv()
	_ = os.Setenv("ADDRESS", "invalid")

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error for invalid address, got nil")
	}
	if !strings.Contains(err.Error(), "ADDRESS must be a valid IP address") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestInvalidEnvAndLogLevel(t *testing.T) {
	testCases := []struct {
		name     string
		key      string
		value    string
		expected string
	}{
		{"invalid env", "ENV", "invalid", "ENV must be one of"},
		{"invalid log level", "LOG_LEVEL", "verbose", "LOG_LEVEL must be one of"},
		{"zero check interval", "DATA_CHECK_INTERVAL_MINUTES", "0", "DATA_CHECK_INTERVAL_MINUTES"},
		{"negative rate", "RATE_LIMIT_RATE", "-1", "RATE_LIMIT_RATE"},
		{"short api key", "MEDISYNC_API_KEY", "short", "too short"},
		{"tiny log file", "MAX_LOG_FILE_SIZE", "1024", "too small"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cleanupEnv()
			defer cleanupEnv()
			_ = os.Setenv(tc.key, tc.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("Expected error for %s=%s, got nil", tc.key, tc.value)
			}
			if !strings.Contains(err.Error(), tc.expected) {
				t.Errorf("Expected error containing %q, got %v", tc.expected, err)
			}
		})
	}
}

func TestProductionRequiresAPIKey(t *testing.T) {
	cleanupEnv()
	defer cleanupEnv()
	_ = os.Setenv("ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when MEDISYNC_API_KEY is missing in production")
	}

	_ = os.Setenv("MEDISYNC_API_KEY", DemoAPIKey)
	if _, err := Load(); err == nil {
		t.Fatal("Expected error when the demo key is used in production")
	}

	_ = os.Setenv("MEDISYNC_API_KEY", "a-real-production-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Env != EnvProduction {
		t.Errorf("Expected prod env, got %s", cfg.Env)
	}
}

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		input    string
		expected Environment
		hasError bool
	}{
		{"dev", EnvDevelopment, false},
		{"development", EnvDevelopment, false},
		{"staging", EnvStaging, false},
		{"prod", EnvProduction, false},
		{"production", EnvProduction, false},
		{"TEST", EnvTest, false},
		{"invalid", EnvDevelopment, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			env, err := ParseEnvironment(tt.input)
			if tt.hasError {
				if err == nil {
					t.Errorf("Expected error for %s, got none", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error for %s: %v", tt.input, err)
			}
			if env != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, env)
			}
		})
	}
}

func cleanupEnv() {
	for _, key := range GetEnvVars() {
		_ = os.Unsetenv(key)
	}
}
