package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	ObjectStoreType string
	LocalStoreDir   string
	SnapshotDir     string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	ScoringProvider string
	ScoringModel    string
	ScoringQueueURL string
	MaxResumeBytes  int64
	MaxVideoBytes   int64
	MaxVideoSeconds int
	DatabaseURL     string
	Env             string
	PublicBaseURL   string
	UIRedirectURL   string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	StaffEmails        []string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	_ = godotenv.Load(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		SnapshotDir:     getEnv("ONBOARDING_SNAPSHOT_DIR", "./data/onboarding"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		ScoringProvider: getEnv("SCORING_PROVIDER", "openai"),
		ScoringModel:    getEnv("SCORING_MODEL", ""),
		ScoringQueueURL: getEnv("TF_SQS_QUEUE_URL", ""),
		MaxResumeBytes:  getEnvInt64("MAX_RESUME_BYTES", 5<<20),
		MaxVideoBytes:   getEnvInt64("MAX_VIDEO_BYTES", 100<<20),
		MaxVideoSeconds: getEnvInt("MAX_VIDEO_SECONDS", 30),
		DatabaseURL:     dbURL,
		Env:             env,
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		UIRedirectURL:   getEnv("UI_REDIRECT_URL", ""),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		StaffEmails:        splitAndTrim(getEnv("STAFF_EMAILS", "")),
	}
}

// MaxVideoDuration returns the recording ceiling as a duration.
func (c Config) MaxVideoDuration() time.Duration {
	if c.MaxVideoSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.MaxVideoSeconds) * time.Second
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config: %s invalid int %q, using default", key, raw)
		return def
	}
	return val
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || val <= 0 {
		log.Printf("config: %s invalid int %q, using default", key, raw)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
