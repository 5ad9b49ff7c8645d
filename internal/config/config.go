package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// HealthWeights parameterizes the health score formula. Every constant the
// scorer uses lives here so deployments can tune it without a rebuild.
type HealthWeights struct {
	ErrorRateWeight  float64
	ErrorRateCap     float64
	LatencyWeight    float64
	LatencyCap       float64
	WarningThreshold float64
	HealthyThreshold float64
}

// DefaultHealthWeights returns the scoring constants used when none are
// configured.
func DefaultHealthWeights() HealthWeights {
	return HealthWeights{
		ErrorRateWeight:  2.0,
		ErrorRateCap:     40.0,
		LatencyWeight:    20.0,
		LatencyCap:       40.0,
		WarningThreshold: 50.0,
		HealthyThreshold: 80.0,
	}
}

// Config holds runtime configuration values for the admin API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	AnalyticsCacheTTL time.Duration
	LogRetentionDays  int
	MaxLogEntries     int
	RetentionSweep    time.Duration
	Health            HealthWeights
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// RetentionCutoff derives the oldest timestamp still considered retained, or
// the zero time when retention is disabled.
func (c Config) RetentionCutoff(now time.Time) time.Time {
	if c.LogRetentionDays <= 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -c.LogRetentionDays)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CLINIC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	defaults := DefaultHealthWeights()

	v.SetDefault("app.name", "Clinic Admin API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("analytics.cache_ttl", "30s")
	v.SetDefault("logs.retention_days", 90)
	v.SetDefault("logs.max_entries", 100000)
	v.SetDefault("logs.retention_sweep", "1h")
	v.SetDefault("health.error_rate_weight", defaults.ErrorRateWeight)
	v.SetDefault("health.error_rate_cap", defaults.ErrorRateCap)
	v.SetDefault("health.latency_weight", defaults.LatencyWeight)
	v.SetDefault("health.latency_cap", defaults.LatencyCap)
	v.SetDefault("health.warning_threshold", defaults.WarningThreshold)
	v.SetDefault("health.healthy_threshold", defaults.HealthyThreshold)

	ttl, err := time.ParseDuration(v.GetString("analytics.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid analytics cache ttl: %w", err)
	}

	sweep, err := time.ParseDuration(v.GetString("logs.retention_sweep"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid retention sweep interval: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		AnalyticsCacheTTL: ttl,
		LogRetentionDays:  v.GetInt("logs.retention_days"),
		MaxLogEntries:     v.GetInt("logs.max_entries"),
		RetentionSweep:    sweep,
		Health: HealthWeights{
			ErrorRateWeight:  v.GetFloat64("health.error_rate_weight"),
			ErrorRateCap:     v.GetFloat64("health.error_rate_cap"),
			LatencyWeight:    v.GetFloat64("health.latency_weight"),
			LatencyCap:       v.GetFloat64("health.latency_cap"),
			WarningThreshold: v.GetFloat64("health.warning_threshold"),
			HealthyThreshold: v.GetFloat64("health.healthy_threshold"),
		},
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	if cfg.AnalyticsCacheTTL <= 0 {
		cfg.AnalyticsCacheTTL = 30 * time.Second
	}

	return cfg, nil
}
