package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	// Session store backend: memory, dynamodb, postgres or redis.
	SessionStoreBackend string
	SessionsTable       string
	DatabaseURL         string
	RedisAddr           string
	RedisPassword       string
	RedisTLS            bool
	SessionTTL          time.Duration

	// Report sink
	ReportsBucket string

	// AWS wiring (DynamoDB session store, S3 report sink)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Bounded timeouts for store/sink I/O
	StoreTimeout time.Duration
	SinkTimeout  time.Duration

	// Interview heuristics: optional YAML override for the rule tables.
	HeuristicsPath string

	AdminJWTSecret string

	CORSAllowedOrigins []string

	// Per-IP rate limit on session creation. Zero disables it.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "json"),
		SessionStoreBackend: strings.ToLower(strings.TrimSpace(getEnv("SESSION_STORE", "memory"))),
		SessionsTable:       getEnv("SESSIONS_TABLE", "interview-sessions"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisTLS:            getEnvAsBool("REDIS_TLS", false),
		SessionTTL:          getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
		ReportsBucket:       getEnv("REPORTS_BUCKET", ""),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		StoreTimeout:        getEnvAsDuration("STORE_TIMEOUT", 5*time.Second),
		SinkTimeout:         getEnvAsDuration("SINK_TIMEOUT", 10*time.Second),
		HeuristicsPath:      getEnv("HEURISTICS_PATH", ""),
		AdminJWTSecret:      getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins:  getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
		RateLimitRPS:        getEnvAsFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:      getEnvAsInt("RATE_LIMIT_BURST", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
