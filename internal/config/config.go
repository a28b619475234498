package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	AllowedOrigins  []string
	AITimeout       time.Duration
	ShutdownTimeout time.Duration

	Database Database
	LLM      LLM
}

// Database selects a dialect and how to reach it. URL wins over the
// discrete postgres fields when both are set.
type Database struct {
	Type string // "postgres", "sqlite" or "mysql"
	URL  string
	Path string // sqlite file

	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type LLM struct {
	Provider    string // "gemini", "anthropic", "openai", "cli" or "mock"
	Model       string
	Temperature float64

	GeminiAPIKey    string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	CLIPath         string
}

func Load() *Config {
	// A missing .env is fine; the environment is authoritative.
	_ = godotenv.Load()

	dbType := strings.ToLower(getEnv("DB_TYPE", "postgres"))

	return &Config{
		Port:            getEnv("PORT", "8080"),
		AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		AITimeout:       getDuration("AI_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Database: Database{
			Type:     dbType,
			URL:      getEnv("DATABASE_URL", ""),
			Path:     getEnv("DB_PATH", "./mathpractice.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", defaultDBPort(dbType)),
			User:     getEnv("DB_USER", "math_user"),
			Password: getEnv("DB_PASSWORD", "math_password"),
			Name:     getEnv("DB_NAME", "math_practice"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		LLM: LLM{
			Provider:        strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
			Model:           getEnv("LLM_MODEL", ""),
			Temperature:     getFloat("LLM_TEMPERATURE", 0.8),
			GeminiAPIKey:    firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
			CLIPath:         getEnv("CLAUDE_CLI_PATH", "claude"),
		},
	}
}

func defaultDBPort(dbType string) string {
	switch dbType {
	case "mysql":
		return "3306"
	case "sqlite", "sqlite3":
		return ""
	default:
		return "5432"
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("WARN: config: %s=%q is not a valid duration, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("WARN: config: %s=%q is not a number, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
