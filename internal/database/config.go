package database

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownDriver is returned for a Driver other than sqlite or postgres.
var ErrUnknownDriver = errors.New("unknown database driver")

// Config holds database connection configuration.
type Config struct {
	// Driver specifies which database to use: "sqlite" or "postgres"
	Driver string `yaml:"driver"`

	// SQLite configuration
	SQLitePath string `yaml:"sqlite_path"`

	// PostgreSQL configuration
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific configuration.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`

	// Connection pool settings
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DefaultConfig returns a Config with sensible defaults for SQLite.
func DefaultConfig(sqlitePath string) Config {
	return Config{
		Driver:     "sqlite",
		SQLitePath: sqlitePath,
	}
}

// DefaultPostgresConfig returns PostgresConfig with recommended pool settings.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:            "localhost",
		Port:            5432,
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// Validate checks that the selected driver has what it needs to connect.
func (c Config) Validate() error {
	switch c.Driver {
	case string(DialectSQLite):
		if c.SQLitePath == "" {
			return errors.New("sqlite path cannot be empty")
		}
	case string(DialectPostgres):
		if c.Postgres.Host == "" || c.Postgres.Database == "" {
			return errors.New("postgres host and database are required")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}
	return nil
}

// DSN returns the data source name passed to sql.Open.
func (c Config) DSN() string {
	if c.Driver != string(DialectPostgres) {
		return c.SQLitePath
	}
	p := c.Postgres
	dsn := fmt.Sprintf("host=%s dbname=%s", p.Host, p.Database)
	if p.Port != 0 {
		dsn += fmt.Sprintf(" port=%d", p.Port)
	}
	if p.User != "" {
		dsn += " user=" + p.User
	}
	if p.Password != "" {
		dsn += " password=" + p.Password
	}
	if p.SSLMode != "" {
		dsn += " sslmode=" + p.SSLMode
	}
	return dsn
}
