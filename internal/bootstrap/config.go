package bootstrap

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
)

// Deployment constants. The database coordinates and the public base URL are
// fixed for this deployment rather than configurable; only the secrets come
// from the environment.
const (
	BaseURL = "http://localhost:5000"

	dbHost = "127.0.0.1"
	dbPort = "5432"
	dbName = "postgres"
	dbUser = "postgres"
)

type Config struct {
	ServerAddr string
	LogLevel   string

	SecretKey    []byte
	ClientID     string
	ClientSecret string
	DBPassword   string
}

func LoadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":5000"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		SecretKey:    []byte(getEnv("SECRET_KEY", "change-me-in-production")),
		ClientID:     getEnv("CLIENT_ID", ""),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		DBPassword:   getEnv("DB_PASS", ""),
	}
}

// CallbackURL is the OAuth redirect URI registered with the provider.
func (c *Config) CallbackURL() string {
	return BaseURL + "/callback"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
