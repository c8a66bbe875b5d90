package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	RedisAddr  string
	RedisPass  string
	JWTSecret  string
	ChatSecret string
	Port       string

	GoogleClientID string
	GoogleSecret   string
	GoogleRedirect string

	// Источник рыночных тарифов для парсера
	TariffSourceURL string
	CORSOrigins     string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return &Config{
		DBHost:          os.Getenv("DB_HOST"),
		DBPort:          os.Getenv("DB_PORT"),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		RedisAddr:       getenvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPass:       os.Getenv("REDIS_PASSWORD"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		ChatSecret:      os.Getenv("CHAT_SECRET"),
		Port:            getenvOrDefault("PORT", "8080"),
		GoogleClientID:  os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleSecret:    os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirect:  os.Getenv("GOOGLE_REDIRECT_URI"),
		TariffSourceURL: getenvOrDefault("TARIFF_SOURCE_URL", "https://www.mf.uz/ru/insurance-tariffs"),
		CORSOrigins:     os.Getenv("CORS_ORIGINS"),
	}
}

// getenvOrDefault returns the environment variable value if set, otherwise returns def
func getenvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
