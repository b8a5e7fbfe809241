package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTAccessSecret    string
	JWTRefreshSecret   string
	JWTAccessTTLHours  int
	JWTRefreshTTLHours int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers string
	KafkaTopic   string

	// Seed admin (explicit authorization claim, created at startup if missing)
	AdminEmail    string
	AdminPassword string
	AdminName     string

	// Submission throttle (per authenticated user, sliding window)
	SubmitMaxAttempts   int
	SubmitWindowSeconds int

	LogLevel string
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	accessTTL, _ := strconv.Atoi(os.Getenv("JWT_ACCESS_TTL_HOURS"))
	refreshTTL, _ := strconv.Atoi(os.Getenv("JWT_REFRESH_TTL_HOURS"))
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	submitMax, _ := strconv.Atoi(os.Getenv("SUBMIT_MAX_ATTEMPTS"))
	submitWindow, _ := strconv.Atoi(os.Getenv("SUBMIT_WINDOW_SECONDS"))

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTAccessSecret:    os.Getenv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret:   os.Getenv("JWT_REFRESH_SECRET"),
		JWTAccessTTLHours:  accessTTL,
		JWTRefreshTTLHours: refreshTTL,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "event-changes"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminName:     getEnv("ADMIN_NAME", "City Events Admin"),

		SubmitMaxAttempts:   submitMax,
		SubmitWindowSeconds: submitWindow,

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// DBConfigured reports whether a Postgres connection is configured. When it
// is not, the server runs against a local in-memory store in an explicit
// degraded mode.
func (c *Config) DBConfigured() bool {
	return c.DBHost != "" && c.DBName != ""
}

// SubmitWindow returns the submission throttle window as a duration.
func (c *Config) SubmitWindow() time.Duration {
	return time.Duration(c.SubmitWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
