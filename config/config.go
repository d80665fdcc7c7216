package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	JWTSecret   string
	JWTTTL      time.Duration
	AdminAPIKey string

	FirebaseCredentialsJSON string
	FirebaseProjectID       string

	RedisAddr     string
	RedisPassword string
	MenuCacheTTL  time.Duration

	RabbitMQURL     string
	RabbitMQQueue   string
	ChannelPoolSize int

	MapboxToken string

	UploadsDir      string
	BackupDir       string
	BackupRetention time.Duration
	BackupHour      int

	AllowedOrigins []string
}

// Load reads .env (when present) and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8080"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "delicacies"),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTTTL:      getEnvAsDuration("JWT_TTL", 24*time.Hour),
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),

		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		MenuCacheTTL:  getEnvAsDuration("MENU_CACHE_TTL", 5*time.Minute),

		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		RabbitMQQueue:   getEnv("RABBITMQ_QUEUE", "notifications"),
		ChannelPoolSize: getEnvAsInt("CHANNEL_POOL_SIZE", 4),

		MapboxToken: getEnv("MAPBOX_TOKEN", ""),

		UploadsDir:      getEnv("UPLOADS_DIR", "./uploads"),
		BackupDir:       getEnv("BACKUP_DIR", "./backup/uploads"),
		BackupRetention: getEnvAsDuration("BACKUP_RETENTION", 4*24*time.Hour),
		BackupHour:      getEnvAsInt("BACKUP_HOUR", 2),

		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
	}
}

// DSN returns DATABASE_URL or a postgres DSN assembled from the DB_* variables.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.FirebaseCredentialsJSON == "" || c.FirebaseProjectID == "" {
		return fmt.Errorf("FIREBASE_CREDENTIALS_JSON and FIREBASE_PROJECT_ID must be set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
