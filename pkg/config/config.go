package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Catalog     CatalogConfig
	Routing     RoutingConfig
	Geolocation GeolocationConfig
	SMTP        SMTPConfig
	WhatsApp    WhatsAppConfig
	OTEL        OTELConfig
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string
	Environment string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	SSEPort        int
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CatalogConfig selects where the facility catalog is read from
type CatalogConfig struct {
	// Source is "memory" (seeded mock hospitals) or "postgres"
	Source string
	// CacheTTL keeps the postgres catalog in Redis for this long; zero disables caching
	CacheTTL time.Duration
}

// RoutingConfig holds routing collaborator configuration
type RoutingConfig struct {
	// Provider is "osrm" or "haversine"
	Provider      string
	OSRMServer    string
	LookupTimeout time.Duration
	// AverageSpeedKmh converts straight-line distance to travel time for the haversine provider
	AverageSpeedKmh float64
}

// GeolocationConfig holds geolocation provider configuration
type GeolocationConfig struct {
	Provider string
	APIKey   string
	Timeout  time.Duration
}

// SMTPConfig holds email alert settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// DispatchDesk receives a copy of every alert
	DispatchDesk []string
}

// WhatsAppConfig holds WhatsApp Cloud API settings
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
}

// Enabled reports whether WhatsApp credentials are configured
func (c *WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != ""
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Golden Hour Response"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8000),
			SSEPort:        getEnvAsInt("SSE_PORT", 8001),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "golden_hour"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Catalog: CatalogConfig{
			Source:   getEnv("CATALOG_SOURCE", "memory"),
			CacheTTL: getEnvAsDuration("CATALOG_CACHE_TTL", 10*time.Second),
		},
		Routing: RoutingConfig{
			Provider:        getEnv("ROUTING_PROVIDER", "osrm"),
			OSRMServer:      getEnv("OSRM_SERVER", "http://router.project-osrm.org"),
			LookupTimeout:   getEnvAsDuration("ROUTE_LOOKUP_TIMEOUT", 5*time.Second),
			AverageSpeedKmh: getEnvAsFloat("ROUTING_AVERAGE_SPEED_KMH", 40),
		},
		Geolocation: GeolocationConfig{
			Provider: getEnv("GEOLOCATION_PROVIDER", "mock"),
			APIKey:   getEnv("GEOLOCATION_API_KEY", ""),
			Timeout:  getEnvAsDuration("GEOLOCATION_TIMEOUT", 3*time.Second),
		},
		SMTP: SMTPConfig{
			Host:         getEnv("SMTP_SERVER", ""),
			Port:         getEnvAsInt("SMTP_PORT", 587),
			Username:     getEnv("SMTP_USERNAME", ""),
			Password:     getEnv("SMTP_PASSWORD", ""),
			From:         getEnv("SMTP_FROM", getEnv("SMTP_USERNAME", "alerts@goldenhour.local")),
			DispatchDesk: getEnvAsList("DISPATCH_DESK_EMAILS", nil),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
			PhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			BaseURL:       getEnv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v18.0"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "golden-hour-dispatch"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if cfg.Routing.LookupTimeout <= 0 {
		return nil, fmt.Errorf("ROUTE_LOOKUP_TIMEOUT must be positive")
	}
	if cfg.Routing.AverageSpeedKmh <= 0 {
		return nil, fmt.Errorf("ROUTING_AVERAGE_SPEED_KMH must be positive")
	}

	return cfg, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
