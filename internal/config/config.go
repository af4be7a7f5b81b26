package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the API reads from the environment.
type Config struct {
	HTTPAddr    string
	DatabaseURL string
	LogLevel    string
	LogFormat   string
	CORSOrigins []string

	// TrustedProxies may set X-Forwarded-For; empty trusts none
	TrustedProxies []string

	JWTSecret  string
	SessionTTL time.Duration

	FormTTL       time.Duration
	SubmitTimeout time.Duration // 0 waits on the collaborator indefinitely
	SubmitRate    float64       // submits per second per client
	SubmitBurst   int

	UploadDelay  time.Duration
	PaymentDelay time.Duration

	S3Bucket   string
	S3Region   string
	S3Endpoint string

	GmailCredentials string
	GmailToken       string
	NotifyFrom       string

	GeminiAPIKey string
}

const defaultDSN = "host=localhost user=postgres password=password dbname=jobsingermany port=5432 sslmode=disable"

// Load reads .env files (when present) and then the process environment.
// Values already set in the environment win over .env.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL: getEnv("DATABASE_URL", defaultDSN),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),

		TrustedProxies: getEnvList("TRUSTED_PROXIES", nil),

		JWTSecret:  getEnv("JWT_SECRET", "jobs-in-germany-dev-secret-change-me"),
		SessionTTL: getEnvDuration("SESSION_TTL", 24*time.Hour),

		FormTTL:       getEnvDuration("FORM_TTL", 30*time.Minute),
		SubmitTimeout: getEnvDuration("SUBMIT_TIMEOUT", 0),
		SubmitRate:    getEnvFloat("SUBMIT_RATE", 2),
		SubmitBurst:   getEnvInt("SUBMIT_BURST", 5),

		UploadDelay:  getEnvDuration("UPLOAD_DELAY", 1500*time.Millisecond),
		PaymentDelay: getEnvDuration("PAYMENT_DELAY", 2*time.Second),

		S3Bucket:   os.Getenv("S3_BUCKET"),
		S3Region:   getEnv("S3_REGION", "eu-central-1"),
		S3Endpoint: os.Getenv("S3_ENDPOINT"),

		GmailCredentials: os.Getenv("GMAIL_CREDENTIALS"),
		GmailToken:       getEnv("GMAIL_TOKEN", "token.json"),
		NotifyFrom:       os.Getenv("NOTIFY_FROM"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// bare numbers are milliseconds
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
