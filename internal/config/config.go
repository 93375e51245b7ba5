package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Upload    UploadConfig
	Probe     ProbeConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Metrics   MetricsConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Tracing   TracingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// UploadConfig holds upload validation configuration
type UploadConfig struct {
	AllowedExtensions []string
	MaxSizeBytes      int64
	TempDir           string
}

// ProbeConfig holds ffprobe invocation configuration
type ProbeConfig struct {
	FFprobePath string
	Timeout     time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig holds report cache configuration
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// MetricsConfig holds the metrics server configuration
type MetricsConfig struct {
	Enabled bool
	Port    int
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	RPS     int
	Burst   int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// TracingConfig holds Jaeger tracing configuration
type TracingConfig struct {
	Enabled        bool
	ServiceName    string
	JaegerEndpoint string
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.readTimeout", "60s")
	viper.SetDefault("server.writeTimeout", "60s")
	viper.SetDefault("server.shutdownTimeout", "10s")

	// Upload defaults
	viper.SetDefault("upload.allowedExtensions", []string{"mp4", "mov", "avi", "mkv"})
	viper.SetDefault("upload.maxSizeBytes", 100*1024*1024) // 100MB
	viper.SetDefault("upload.tempDir", "")

	// Probe defaults
	viper.SetDefault("probe.ffprobePath", "ffprobe")
	viper.SetDefault("probe.timeout", "30s")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Cache defaults
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.ttl", "5m")

	// Metrics defaults
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.port", 9090)

	// Rate limit defaults
	viper.SetDefault("ratelimit.enabled", true)
	viper.SetDefault("ratelimit.rps", 10)
	viper.SetDefault("ratelimit.burst", 20)

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("log.output", "stdout")

	// Tracing defaults
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.serviceName", "avtriage")
	viper.SetDefault("tracing.jaegerEndpoint", "http://localhost:14268/api/traces")
}
