// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration, loaded from environment
// variables with sensible defaults.
type Config struct {
	Service       ServiceConfig
	Engine        EngineConfig
	Kafka         KafkaConfig
	SessionLimits SessionLimitsConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds service identity and listener settings.
type ServiceConfig struct {
	Principal   string // Service identity attached to published events
	HTTPPort    string // Port for the liveness/readiness/info endpoints
	MetricsPort string // Port for the Prometheus metrics endpoint
}

// EngineConfig holds recognition engine settings.
type EngineConfig struct {
	Provider       string // mock, google, whisper
	LanguageCode   string // BCP-47, e.g. en-US
	SampleRateHz   int32
	InterimResults bool
	AudioEncoding  string // LINEAR16, MULAW, FLAC
	OpenAIAPIKey   string // Required for the whisper provider
	WhisperModel   string
}

// KafkaConfig holds event publishing settings.
type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	TopicResults  string
	TopicCanceled string
	Principal     string // Falls back to Service.Principal when unset
}

// SessionLimitsConfig holds session backpressure limits.
type SessionLimitsConfig struct {
	MaxInterims int
	MaxDuration time.Duration
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json, console
}

// Load reads configuration from the environment. A .env file in the
// working directory is read first if present; real environment
// variables win over it.
func Load() *Config {
	_ = godotenv.Load()

	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-result-gateway")

	return &Config{
		Service: ServiceConfig{
			Principal:   principal,
			HTTPPort:    envOrDefault("HTTP_PORT", "8080"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
		Engine: EngineConfig{
			Provider:       envOrDefault("ENGINE_PROVIDER", "mock"),
			LanguageCode:   envOrDefault("ENGINE_LANGUAGE_CODE", "en-US"),
			SampleRateHz:   int32(envOrDefaultInt("ENGINE_SAMPLE_RATE_HZ", 8000)),
			InterimResults: envOrDefaultBool("ENGINE_INTERIM_RESULTS", true),
			AudioEncoding:  envOrDefault("ENGINE_AUDIO_ENCODING", "LINEAR16"),
			OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
			WhisperModel:   envOrDefault("WHISPER_MODEL", "whisper-1"),
		},
		Kafka: KafkaConfig{
			Enabled:       envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:       envOrDefaultList("KAFKA_BROKERS", nil),
			TopicResults:  envOrDefault("KAFKA_TOPIC_RESULTS", "recognition.results"),
			TopicCanceled: envOrDefault("KAFKA_TOPIC_CANCELED", "recognition.canceled"),
			Principal:     envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		SessionLimits: SessionLimitsConfig{
			MaxInterims: envOrDefaultInt("SESSION_MAX_INTERIMS", 500),
			MaxDuration: envOrDefaultDuration("SESSION_MAX_DURATION", 5*time.Minute),
		},
		Observability: ObservabilityConfig{
			LogLevel:  envOrDefault("LOG_LEVEL", "info"),
			LogFormat: envOrDefault("LOG_FORMAT", "json"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.ToLower(v)); err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
