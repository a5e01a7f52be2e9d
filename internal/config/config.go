package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends accepted by STORE_BACKEND.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendAzure = "azure"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64

	Env         string
	LogLevel    string
	CORSOrigins []string

	CloudMetricsEnabled   bool
	CloudMetricsNamespace string

	StoreBackend  string
	LocalStoreDir string
	S3Bucket      string
	S3Prefix      string

	AzureAccountName string
	AzureAccountKey  string
	AzureContainer   string

	ModelDir             string
	ModelArtifactBaseURL string
	ONNXRuntimeLib       string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AllowAllOrigins reports whether CORS is fully permissive.
func (c *Config) AllowAllOrigins() bool {
	for _, o := range c.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return len(c.CORSOrigins) == 0
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 32*1024*1024), // 32MB

		Env:         getEnvOrDefault("APP_ENV", "dev"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		CORSOrigins: parseListOrDefault("CORS_ORIGINS", []string{"*"}),

		CloudMetricsEnabled:   parseBoolOrDefault("CLOUD_METRICS_ENABLED", false),
		CloudMetricsNamespace: getEnvOrDefault("CLOUD_METRICS_NAMESPACE", "PoseEstimator"),

		StoreBackend:  strings.ToLower(getEnvOrDefault("STORE_BACKEND", BackendLocal)),
		LocalStoreDir: getEnvOrDefault("LOCAL_STORE_DIR", "data"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		S3Prefix:      getEnvOrDefault("S3_PREFIX", "results/"),

		AzureAccountName: os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureAccountKey:  os.Getenv("AZURE_STORAGE_KEY"),
		AzureContainer:   os.Getenv("AZURE_CONTAINER"),

		ModelDir:             getEnvOrDefault("MODEL_DIR", "models"),
		ModelArtifactBaseURL: strings.TrimRight(os.Getenv("MODEL_ARTIFACT_BASE_URL"), "/"),
		ONNXRuntimeLib:       os.Getenv("ONNXRUNTIME_LIB"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values LoadFromEnv cannot default away.
func (c *Config) Validate() error {
	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be > 0 (got %s)", c.RequestTimeout)
	}

	switch c.StoreBackend {
	case BackendLocal:
		if strings.TrimSpace(c.LocalStoreDir) == "" {
			return fmt.Errorf("LOCAL_STORE_DIR must not be empty")
		}
	case BackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORE_BACKEND=s3")
		}
	case BackendAzure:
		if c.AzureAccountName == "" || c.AzureAccountKey == "" || c.AzureContainer == "" {
			return fmt.Errorf("AZURE_STORAGE_ACCOUNT, AZURE_STORAGE_KEY and AZURE_CONTAINER are required when STORE_BACKEND=azure")
		}
	default:
		return fmt.Errorf("invalid STORE_BACKEND: %q (want local, s3 or azure)", c.StoreBackend)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

func parseListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
