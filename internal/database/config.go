package database

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Supported drivers after normalization
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig describes where the recipe store lives
type DatabaseConfig struct {
	Driver string

	// PostgreSQL
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// SQLite file, ":memory:" for a throwaway store
	Path string
	// BusyTimeout bounds how long a SQLite write waits on a locked database
	BusyTimeout time.Duration
	// ForeignKeys enables SQLite foreign key enforcement, which is off per connection by default
	ForeignKeys bool
}

// normalizedDriver maps aliases onto DriverPostgres or DriverSQLite, "" when unsupported
func (c *DatabaseConfig) normalizedDriver() string {
	switch strings.ToLower(c.Driver) {
	case "postgres", "postgresql":
		return DriverPostgres
	case "sqlite", "sqlite3", "":
		return DriverSQLite
	default:
		return ""
	}
}

func (c *DatabaseConfig) String() string {
	if c.normalizedDriver() == DriverSQLite {
		return fmt.Sprintf("sqlite(path=%s busy_timeout=%s foreign_keys=%t)", c.Path, c.BusyTimeout, c.ForeignKeys)
	}
	return fmt.Sprintf("%s(host=%s port=%s db=%s user=%s password=[REDACTED] sslmode=%s)",
		c.Driver, c.Host, c.Port, c.Name, c.User, c.SSLMode)
}

// DSN renders the connection string for the configured driver, "" for unknown drivers.
// SQLite pragmas ride on the DSN so every pooled connection gets them.
func (c *DatabaseConfig) DSN() string {
	switch c.normalizedDriver() {
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s application_name=foodgram",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	case DriverSQLite:
		path := c.Path
		if path == "" {
			path = ":memory:"
		}
		params := url.Values{}
		if c.BusyTimeout > 0 {
			params.Set("_busy_timeout", strconv.FormatInt(c.BusyTimeout.Milliseconds(), 10))
		}
		if c.ForeignKeys {
			params.Set("_foreign_keys", "on")
		}
		if len(params) == 0 {
			return path
		}
		return path + "?" + params.Encode()
	default:
		return ""
	}
}
