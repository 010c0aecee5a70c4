package config

import (
	"fmt"     // For error wrapping
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
	"gopkg.in/yaml.v3"         // For the optional config file
)

// Config holds the application configuration
type Config struct {
	AppPort           string `yaml:"app_port"`            // Application port
	DBDriver          string `yaml:"db_driver"`           // Database driver: mysql or sqlite
	DBUser            string `yaml:"db_user"`             // Database user
	DBPassword        string `yaml:"db_password"`         // Database password
	DBHost            string `yaml:"db_host"`             // Database host
	DBPort            string `yaml:"db_port"`             // Database port
	DBName            string `yaml:"db_name"`             // Database name
	DBPath            string `yaml:"db_path"`             // SQLite database file
	JWTSecret         string `yaml:"jwt_secret"`          // Session token secret
	IdentitySecret    string `yaml:"identity_secret"`     // Identity provider assertion secret
	RedisAddr         string `yaml:"redis_addr"`          // Redis server address
	RedisPass         string `yaml:"redis_pass"`          // Redis password
	RedisDB           int    `yaml:"redis_db"`            // Redis database number
	IsProd            bool   `yaml:"is_prod"`             // Is production environment
	LogLevel          string `yaml:"log_level"`           // Logrus level name
	CheckoutURL       string `yaml:"checkout_url"`        // External checkout page for credit purchases
	AdminEmail        string `yaml:"admin_email"`         // Email allowed to grant credits manually
	WebhookSecretHash string `yaml:"webhook_secret_hash"` // Bcrypt hash of the payment webhook secret
}

// DSN builds the MySQL Data Source Name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// LoadConfig loads configuration from an optional YAML file and environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	cfg := &Config{
		AppPort:  "8080",   // Default port
		DBDriver: "sqlite", // Local development runs on a SQLite file
		DBPath:   "dev.db", // Default SQLite file
		LogLevel: "info",   // Default log level
	}
	// A YAML file provides base values when CONFIG_PATH is set
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	// Environment variables always win over the file
	setString(&cfg.AppPort, "APP_PORT")
	setString(&cfg.DBDriver, "DB_DRIVER")
	setString(&cfg.DBUser, "DB_USER")
	setString(&cfg.DBPassword, "DB_PASSWORD")
	setString(&cfg.DBHost, "DB_HOST")
	setString(&cfg.DBPort, "DB_PORT")
	setString(&cfg.DBName, "DB_NAME")
	setString(&cfg.DBPath, "DB_PATH")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.IdentitySecret, "IDENTITY_SECRET")
	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setString(&cfg.RedisPass, "REDIS_PASS")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.CheckoutURL, "CHECKOUT_URL")
	setString(&cfg.AdminEmail, "ADMIN_EMAIL")
	setString(&cfg.WebhookSecretHash, "WEBHOOK_SECRET_HASH")
	if v := os.Getenv("REDIS_DB"); v != "" {
		redisDB, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = redisDB // Redis database number
	}
	if v := os.Getenv("IS_PROD"); v != "" {
		cfg.IsProd = v == "true" // Is production environment
	}
	if cfg.DBDriver != "mysql" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

// setString overwrites dst with the environment value of key when it is set
func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
