package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultSecret = "change-this-in-production"

type Config struct {
	ServerPort int
	LogLevel   string

	DatabaseURL string

	JWTSecret     []byte
	RefreshSecret []byte

	Razorpay Razorpay
	Storage  Storage
	Search   Search
	Redis    Redis

	KafkaBrokers []string

	// AdminEmails are granted the admin role at registration.
	AdminEmails []string

	LoginAttemptsPerMinute int
}

type Razorpay struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

type Storage struct {
	URL    string
	Key    string
	Bucket string
}

type Search struct {
	URL      string
	User     string
	Password string
	Index    string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	secret := EnvDefault("SECRET_KEY", defaultSecret)
	if secret == defaultSecret {
		log.Printf("warning: SECRET_KEY is not set, using the development default")
	}

	return &Config{
		ServerPort: EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:   os.Getenv("LOG_LEVEL"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:     []byte(secret),
		RefreshSecret: []byte(EnvDefault("REFRESH_SECRET", secret+":refresh")),

		Razorpay: Razorpay{
			KeyID:     strings.TrimSpace(os.Getenv("RAZORPAY_KEY_ID")),
			KeySecret: strings.TrimSpace(os.Getenv("RAZORPAY_KEY_SECRET")),
			BaseURL:   EnvDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
		},
		Storage: Storage{
			URL:    strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
			Key:    os.Getenv("SUPABASE_KEY"),
			Bucket: EnvDefault("STORAGE_BUCKET", "uploads"),
		},
		Search: Search{
			URL:      os.Getenv("ES_URL"),
			User:     os.Getenv("ES_USER"),
			Password: os.Getenv("ES_PASSWORD"),
			Index:    EnvDefault("ES_INDEX", "products"),
		},
		Redis: Redis{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       EnvIntDefault("REDIS_DB", 0),
		},

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		AdminEmails:  CSV(strings.ToLower(os.Getenv("ADMIN_EMAILS"))),

		LoginAttemptsPerMinute: EnvIntDefault("LOGIN_ATTEMPTS_PER_MINUTE", 5),
	}
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
