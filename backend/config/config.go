package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string // sqlite, postgres
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret  string
	JWTTTL     time.Duration
	ServerPort string
	// LogFormat is "text" or "json".
	LogFormat  string

	// Redis backs the user stats cache; empty disables caching.
	RedisURL      string
	StatsCacheTTL time.Duration

	XPLessonComplete int
	XPDailyLogin     int
	XPStreak7Days    int
	XPStreak30Days   int

	// ReconcileAt is the UTC wall-clock time ("15:04") of the nightly level repair job.
	ReconcileAt string
	SeedData    bool
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "engilearn.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "learning_platform"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:  getEnv("JWT_SECRET", "secret"),
		JWTTTL:     getEnvDuration("JWT_TTL", 72*time.Hour),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),

		RedisURL:      getEnv("REDIS_URL", ""),
		StatsCacheTTL: getEnvDuration("STATS_CACHE_TTL", 5*time.Minute),

		XPLessonComplete: getEnvInt("XP_LESSON_COMPLETE", 50),
		XPDailyLogin:     getEnvInt("XP_DAILY_LOGIN", 10),
		XPStreak7Days:    getEnvInt("XP_STREAK_7_DAYS", 100),
		XPStreak30Days:   getEnvInt("XP_STREAK_30_DAYS", 500),

		ReconcileAt: getEnv("RECONCILE_AT", "03:00"),
		SeedData:    getEnvBool("SEED_DATA", false),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}
