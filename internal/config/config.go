package config

import (
	"flag"
	"net"
	"net/url"
	"os"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	LogLevel   string
	LogFormat  string
}

// Load reads the configuration from the environment. Call godotenv.Load first
// to pick up a .env file.
func Load() *Config {
	return &Config{
		DBHost:     getEnv("POSTGRES_HOST", "localhost"),
		DBPort:     getEnv("POSTGRES_PORT", "5432"),
		DBUser:     getEnv("POSTGRES_USER", "postgres"),
		DBPassword: getEnv("POSTGRES_PASSWORD", "postgres"),
		DBName:     getEnv("POSTGRES_DB", "polls"),
		DBSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),
	}
}

// BindFlags registers flags that override the values already loaded.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DBHost, "db-host", c.DBHost, "Database host")
	fs.StringVar(&c.DBPort, "db-port", c.DBPort, "Database port")
	fs.StringVar(&c.DBUser, "db-user", c.DBUser, "Database user")
	fs.StringVar(&c.DBPassword, "db-pass", c.DBPassword, "Database password")
	fs.StringVar(&c.DBName, "db-name", c.DBName, "Database name")
	fs.StringVar(&c.DBSSLMode, "db-sslmode", c.DBSSLMode, "Database sslmode")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format (text, json)")
}

func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
