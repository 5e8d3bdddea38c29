package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort       string
	MongoURI         string
	MongoDB          string
	RedisURL         string
	JWTSecret        string
	SMTPHost         string
	SMTPPort         string
	SMTPUser         string
	SMTPPass         string
	CoordinatorEmail string
	AdminEmail       string
	PublicBaseURL    string
	NotifyOnMessage  bool
}

// LoadConfig подгружает переменные окружения из .env
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		return nil, err
	}
	return &Config{
		ServerPort:       os.Getenv("SERVER_PORT"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          os.Getenv("MONGO_DB"),
		RedisURL:         os.Getenv("REDIS_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         os.Getenv("SMTP_PORT"),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPass:         os.Getenv("SMTP_PASS"),
		CoordinatorEmail: os.Getenv("COORDINATOR_EMAIL"),
		AdminEmail:       os.Getenv("ADMIN_EMAIL"),
		PublicBaseURL:    os.Getenv("PUBLIC_BASE_URL"),
		NotifyOnMessage:  os.Getenv("NOTIFY_ON_MESSAGE") != "false",
	}, nil
}

// NotificationRecipient — адрес координатора с запасным вариантом
func (c *Config) NotificationRecipient() string {
	if c.CoordinatorEmail != "" {
		return c.CoordinatorEmail
	}
	return c.AdminEmail
}
