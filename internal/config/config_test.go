package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"HOST", "PORT", "REQUEST_TIMEOUT", "MAX_REQUEST_BODY_SIZE", "APP_ENV", "CORS_ORIGINS",
		"CLOUD_METRICS_ENABLED", "STORE_BACKEND", "LOCAL_STORE_DIR", "S3_PREFIX", "MODEL_DIR",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Expected defaults to load, got %v", err)
	}
	if cfg.ServerAddress() != "0.0.0.0:8080" {
		t.Errorf("Unexpected address %s", cfg.ServerAddress())
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("Unexpected request timeout %s", cfg.RequestTimeout)
	}
	if cfg.Env != "dev" {
		t.Errorf("Expected env dev, got %s", cfg.Env)
	}
	if cfg.StoreBackend != BackendLocal || cfg.LocalStoreDir != "data" {
		t.Errorf("Unexpected store defaults: %s %s", cfg.StoreBackend, cfg.LocalStoreDir)
	}
	if cfg.S3Prefix != "results/" {
		t.Errorf("Expected default S3 prefix results/, got %s", cfg.S3Prefix)
	}
	if cfg.CloudMetricsEnabled {
		t.Error("Expected cloud metrics disabled by default")
	}
	if !cfg.AllowAllOrigins() {
		t.Error("Expected permissive CORS by default")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("CLOUD_METRICS_ENABLED", "true")
	t.Setenv("STORE_BACKEND", "S3")
	t.Setenv("S3_BUCKET", "pose-results")
	t.Setenv("MODEL_ARTIFACT_BASE_URL", "https://models.example/movenet/")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Env != "prod" {
		t.Errorf("Expected env prod, got %s", cfg.Env)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Unexpected CORS origins %v", cfg.CORSOrigins)
	}
	if cfg.AllowAllOrigins() {
		t.Error("Did not expect permissive CORS")
	}
	if !cfg.CloudMetricsEnabled {
		t.Error("Expected cloud metrics enabled")
	}
	if cfg.StoreBackend != BackendS3 {
		t.Errorf("Expected backend s3, got %s", cfg.StoreBackend)
	}
	if cfg.ModelArtifactBaseURL != "https://models.example/movenet" {
		t.Errorf("Expected trailing slash trimmed, got %s", cfg.ModelArtifactBaseURL)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Port = "abc" }, "invalid PORT"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid PORT"},
		{"zero body size", func(c *Config) { c.MaxRequestBodySize = 0 }, "MAX_REQUEST_BODY_SIZE"},
		{"unknown backend", func(c *Config) { c.StoreBackend = "gcs" }, "invalid STORE_BACKEND"},
		{"s3 without bucket", func(c *Config) { c.StoreBackend = BackendS3 }, "S3_BUCKET"},
		{"azure without account", func(c *Config) { c.StoreBackend = BackendAzure }, "AZURE_STORAGE_ACCOUNT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		Host:               "127.0.0.1",
		Port:               "8080",
		RequestTimeout:     time.Second,
		MaxRequestBodySize: 1024,
		StoreBackend:       BackendLocal,
		LocalStoreDir:      "data",
	}
}
