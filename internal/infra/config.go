package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	GeminiAPIKey string
	VisionModel  string
	PlannerModel string
	ImageModel   string

	CDNBaseURL   string
	CDNAPIKey    string
	UploadFolder string
	RemixFolder  string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int

	// Batch re-ingest fan-out is always bounded; individual failures never
	// abort sibling calls.
	ReingestConcurrency int
	EnrichTimeout       time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		VisionModel:         getEnv("GEMINI_VISION_MODEL", "gemini-2.5-flash"),
		PlannerModel:        getEnv("GEMINI_PLANNER_MODEL", "gemini-2.5-flash"),
		ImageModel:          getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		CDNBaseURL:          os.Getenv("CDN_BASE_URL"),
		CDNAPIKey:           os.Getenv("CDN_API_KEY"),
		UploadFolder:        getEnv("CDN_UPLOAD_FOLDER", "library"),
		RemixFolder:         getEnv("CDN_REMIX_FOLDER", "remixes"),
		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:     getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		ReingestConcurrency: getEnvInt("REINGEST_CONCURRENCY", 4),
		EnrichTimeout:       time.Second * time.Duration(getEnvInt("ENRICH_TIMEOUT_SECONDS", 60)),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.CDNBaseURL == "" {
		return nil, fmt.Errorf("CDN_BASE_URL is required")
	}
	if cfg.CDNAPIKey == "" {
		return nil, fmt.Errorf("CDN_API_KEY is required")
	}
	if cfg.ReingestConcurrency < 1 {
		cfg.ReingestConcurrency = 1
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
