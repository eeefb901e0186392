package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the server and the seed command.
type Config struct {
	HTTPAddr        string
	DB              DBConfig
	MediaDir        string
	SessionSecret   string
	Admin           AdminConfig
	ShutdownTimeout time.Duration
}

// DBConfig selects the gorm dialector and its DSN.
type DBConfig struct {
	Driver string
	DSN    string
	// PGDriverName is the database/sql driver used by the postgres dialector:
	// "pgx" or "postgres" (lib/pq).
	PGDriverName string
	Debug        bool
}

// AdminConfig holds the admin console credentials and token settings.
type AdminConfig struct {
	Username  string
	Password  string
	JWTSecret string
	TokenTTL  time.Duration
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: no .env file loaded, relying on system environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		MediaDir:      getenv("MEDIA_DIR", "media"),
		SessionSecret: getenv("SESSION_SECRET", "shopboard-dev-session-secret"),
		DB: DBConfig{
			Driver:       getenv("DB_DRIVER", DriverSQLite),
			DSN:          getenv("DB_DSN", "shopboard.db"),
			PGDriverName: getenv("DB_PG_DRIVER", "pgx"),
		},
		Admin: AdminConfig{
			Username:  getenv("ADMIN_USERNAME", "admin"),
			Password:  os.Getenv("ADMIN_PASSWORD"),
			JWTSecret: getenv("JWT_SECRET", "shopboard-dev-jwt-secret"),
		},
	}

	var err error
	if cfg.DB.Debug, err = getbool("DB_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.Admin.TokenTTL, err = getduration("JWT_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getduration("SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	switch cfg.DB.Driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	switch cfg.DB.PGDriverName {
	case "pgx", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_PG_DRIVER %q", cfg.DB.PGDriverName)
	}

	return cfg, nil
}

// AdminEnabled reports whether admin login is possible.
func (c *Config) AdminEnabled() bool {
	return c.Admin.Username != "" && c.Admin.Password != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getduration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
