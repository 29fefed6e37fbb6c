package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/database"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// SetLogLevel overrides the level picked from APP_ENV at startup
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

const minProductionSecretLength = 32

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port        int    `envconfig:"APP_PORT" default:"8080" json:"port"`
	Host        string `envconfig:"APP_HOST" default:"localhost" json:"host"`
	Environment string `envconfig:"APP_ENV" default:"development" json:"environment"`

	// Database configuration
	DBDriver   string `envconfig:"DB_DRIVER" default:"sqlite" json:"db_driver"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost" json:"db_host"`
	DBPort     string `envconfig:"DB_PORT" default:"5432" json:"db_port"`
	DBName     string `envconfig:"DB_NAME" default:"foodgram" json:"db_name"`
	DBUser     string `envconfig:"DB_USER" default:"foodgram" json:"db_user"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"foodgram" json:"db_password"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable" json:"db_sslmode"`
	DBPath     string `envconfig:"DB_PATH" default:"foodgram.sqlite" json:"db_path"`

	// SQLite connection pragmas
	DBBusyTimeout time.Duration `envconfig:"DB_BUSY_TIMEOUT" default:"5s" json:"db_busy_timeout"`
	DBForeignKeys bool          `envconfig:"DB_FOREIGN_KEYS" default:"true" json:"db_foreign_keys"`

	// Logging configuration, empty keeps the APP_ENV default
	LogLevel string `envconfig:"LOG_LEVEL" json:"log_level"`

	// Security Configuration
	JWTSecret string `envconfig:"JWT_SECRET" default:"secret" json:"jwt_secret"`

	// Number of tags and ingredients kept in the lookup cache
	CatalogCacheSize int `envconfig:"CATALOG_CACHE_SIZE" default:"512" json:"catalog_cache_size"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, Environment: %s, DBDriver: %s, DBHost: %s, DBPort: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], DBPath: %s, DBBusyTimeout: %s, DBForeignKeys: %t, LogLevel: %s, JWTSecret: [REDACTED], CatalogCacheSize: %d}",
		c.Port, c.Host, c.Environment, c.DBDriver, c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPath, c.DBBusyTimeout, c.DBForeignKeys, c.LogLevel, c.CatalogCacheSize)
}

// Database returns the connection settings consumed by database.InitDatabase
func (c *Config) Database() database.DatabaseConfig {
	return database.DatabaseConfig{
		Driver:   c.DBDriver,
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSSLMode,
		Path:     c.DBPath,

		BusyTimeout: c.DBBusyTimeout,
		ForeignKeys: c.DBForeignKeys,
	}
}

// Validate checks values envconfig cannot express with struct tags
func (c *Config) Validate() error {
	switch strings.ToLower(c.DBDriver) {
	case "postgres", "postgresql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (supported: postgres, sqlite)", c.DBDriver)
	}

	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.Environment == "production" && len(c.JWTSecret) < minProductionSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in production", minProductionSecretLength)
	}

	if c.DBBusyTimeout < 0 {
		return errors.New("DB_BUSY_TIMEOUT must not be negative")
	}

	if c.CatalogCacheSize <= 0 {
		return errors.New("CATALOG_CACHE_SIZE must be positive")
	}
	return nil
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// Returns an error if any environment variable has an invalid format or fails validation
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Infof("Configuration loaded: %s", config.String())
	return &config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}
