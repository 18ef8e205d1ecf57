// Package config reads the backend configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config is the configuration of the backend.
type Config struct {
	// HTTP server
	APIURL *url.URL
	Port   string

	// Database
	DBDriver string
	DBDSN    string

	// Authentication
	JWTSecret string
	TokenTTL  time.Duration

	// Defines "today" and "this month"
	Timezone *time.Location

	CORSAllowOrigins []string
	EnablePprof      bool

	// Optional Redis relay for change hints
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string

	// Require a token on websocket connections
	RealtimeRequireToken bool

	// Set when running with GIN_MODE=debug
	Debug bool

	errors []string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first if it exists.
//
// Invalid values are reported by Validate.
func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		Port:                 getEnv("PORT", "8000"),
		DBDriver:             getEnv("DB_DRIVER", DriverSQLite),
		DBDSN:                getEnv("DB_DSN", "data/gorm.db"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		CORSAllowOrigins:     strings.Fields(os.Getenv("CORS_ALLOW_ORIGINS")),
		EnablePprof:          os.Getenv("ENABLE_PPROF") == "true",
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisChannel:         getEnv("REDIS_CHANNEL", "twobolsos:hints"),
		RealtimeRequireToken: os.Getenv("REALTIME_REQUIRE_TOKEN") == "true",
		Debug:                os.Getenv("GIN_MODE") == "debug",
	}

	apiURL, ok := os.LookupEnv("API_URL")
	if !ok {
		c.errors = append(c.errors, "environment variable API_URL must be set")
	} else if u, err := url.Parse(apiURL); err != nil || u.Scheme == "" || u.Host == "" {
		c.errors = append(c.errors, fmt.Sprintf("invalid API_URL '%s': must be an absolute URL", apiURL))
	} else {
		c.APIURL = u
	}

	c.TokenTTL = c.duration("TOKEN_TTL", 7*24*time.Hour)
	c.RedisDB = c.integer("REDIS_DB", 0)

	timezone := getEnv("TIMEZONE", "UTC")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		c.errors = append(c.errors, fmt.Sprintf("invalid TIMEZONE '%s': %v", timezone, err))
		loc = time.UTC
	}
	c.Timezone = loc

	return c
}

// Validate reports all invalid configuration values at once.
func (c *Config) Validate() error {
	errors := append([]string{}, c.errors...)

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DBDriver {
	case DriverSQLite, DriverMySQL:
	default:
		errors = append(errors, fmt.Sprintf("invalid DB_DRIVER '%s': must be one of %s, %s", c.DBDriver, DriverSQLite, DriverMySQL))
	}

	if c.DBDSN == "" {
		errors = append(errors, "DB_DSN must not be empty")
	}

	if c.JWTSecret == "" && !c.Debug {
		errors = append(errors, "JWT_SECRET must be set unless GIN_MODE is debug")
	}

	if c.TokenTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid TOKEN_TTL %v: must be positive", c.TokenTTL))
	}

	if c.RedisAddr != "" && c.RedisChannel == "" {
		errors = append(errors, "REDIS_CHANNEL must not be empty when REDIS_ADDR is set")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Secret returns the token signing secret. In debug mode, a fixed
// development secret is used if none is configured.
func (c *Config) Secret() string {
	if c.JWTSecret == "" && c.Debug {
		return "twobolsos-development-secret"
	}

	return c.JWTSecret
}

func (c *Config) duration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		c.errors = append(c.errors, fmt.Sprintf("invalid %s '%s': must be a duration like 24h", key, value))
		return defaultValue
	}

	return d
}

func (c *Config) integer(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		c.errors = append(c.errors, fmt.Sprintf("invalid %s '%s': must be a number", key, value))
		return defaultValue
	}

	return i
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
