package config

import (
	"os"
)

// Queue names. The dead-letter queue is a durable sink for messages that
// exhausted their retry attempts; it is drained by humans, never by code.
const (
	QueueFunding       = "wallet_funding"
	QueueWithdrawal    = "wallet_withdrawal"
	QueueTransfer      = "wallet_transfer"
	QueueNotifications = "notifications"
	QueueLoginLogs     = "login_logs"
	QueueDeadLetter    = "wallet_dead_letter"
)

// MaxAttempts is the number of re-publishes a failing message gets before
// it is dead-lettered, i.e. a message is handled at most MaxAttempts+1 times.
const MaxAttempts = 2

type Config struct {
	ServerPort string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	SMTPHost string
	SMTPPort string

	JWTSecret string
}

func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", ":8080"),

		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBName:     os.Getenv("DB_NAME"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: os.Getenv("SMTP_PORT"),

		JWTSecret: os.Getenv("JWT_SECRET"),
	}
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
