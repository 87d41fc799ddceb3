package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"pharmabill/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	Log       LogConfig
	CORS      CORSConfig
	Pricing   PricingConfig
	Export    ExportConfig
	Metrics   MetricsConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`

	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For
	// header is honoured. Empty trusts none.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for published exports.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PricingConfig holds line pricing defaults.
type PricingConfig struct {
	// DefaultMode is used for new drafts and quotes that name no mode.
	DefaultMode domain.PricingMode `mapstructure:"default_mode"`
}

// ExportConfig holds settings for published draft exports.
type ExportConfig struct {
	KeyPrefix     string `mapstructure:"key_prefix"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// RateLimitConfig holds the API rate limit. Rate uses the "<limit>-<period>"
// form, e.g. "600-M"; empty disables limiting.
type RateLimitConfig struct {
	Rate string `mapstructure:"rate"`
}

// Load reads configuration from environment variables with the PHARMABILL_ prefix.
// A .env file in the working directory is loaded first if present; real
// environment variables take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PHARMABILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.trusted_proxies", "")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "pharmabill")
	v.SetDefault("db.password", "pharmabill_secret")
	v.SetDefault("db.name", "pharmabill_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "pharmabill-exports")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	v.SetDefault("pricing.default_mode", string(domain.PricingModeDiscountedRate))

	v.SetDefault("export.key_prefix", "drafts")
	v.SetDefault("export.presign_expiry", 3600)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "pharmabill")
	v.SetDefault("ratelimit.rate", "600-M")

	envBindings := map[string]string{
		"server.port":            "PHARMABILL_SERVER_PORT",
		"server.read_timeout":    "PHARMABILL_SERVER_READ_TIMEOUT",
		"server.write_timeout":   "PHARMABILL_SERVER_WRITE_TIMEOUT",
		"server.environment":     "PHARMABILL_SERVER_ENVIRONMENT",
		"server.trusted_proxies": "PHARMABILL_SERVER_TRUSTED_PROXIES",
		"db.host":                "PHARMABILL_DB_HOST",
		"db.port":                "PHARMABILL_DB_PORT",
		"db.user":                "PHARMABILL_DB_USER",
		"db.password":            "PHARMABILL_DB_PASSWORD",
		"db.name":                "PHARMABILL_DB_NAME",
		"db.sslmode":             "PHARMABILL_DB_SSLMODE",
		"db.max_open":            "PHARMABILL_DB_MAX_OPEN",
		"db.max_idle":            "PHARMABILL_DB_MAX_IDLE",
		"s3.region":              "PHARMABILL_S3_REGION",
		"s3.bucket":              "PHARMABILL_S3_BUCKET",
		"s3.endpoint":            "PHARMABILL_S3_ENDPOINT",
		"s3.access_key":          "PHARMABILL_S3_ACCESS_KEY",
		"s3.secret_key":          "PHARMABILL_S3_SECRET_KEY",
		"log.level":              "PHARMABILL_LOG_LEVEL",
		"log.format":             "PHARMABILL_LOG_FORMAT",
		"cors.allowed_origins":   "PHARMABILL_CORS_ALLOWED_ORIGINS",
		"pricing.default_mode":   "PHARMABILL_PRICING_DEFAULT_MODE",
		"export.key_prefix":      "PHARMABILL_EXPORT_KEY_PREFIX",
		"export.presign_expiry":  "PHARMABILL_EXPORT_PRESIGN_EXPIRY",
		"metrics.enabled":        "PHARMABILL_METRICS_ENABLED",
		"metrics.namespace":      "PHARMABILL_METRICS_NAMESPACE",
		"ratelimit.rate":         "PHARMABILL_RATELIMIT_RATE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT; it wins unless PHARMABILL_SERVER_PORT is set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("PHARMABILL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:           serverPort,
		ReadTimeout:    v.GetDuration("server.read_timeout"),
		WriteTimeout:   v.GetDuration("server.write_timeout"),
		Environment:    v.GetString("server.environment"),
		TrustedProxies: splitList(v.GetString("server.trusted_proxies")),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitList(v.GetString("cors.allowed_origins"))}

	mode, err := domain.ParsePricingMode(v.GetString("pricing.default_mode"))
	if err != nil {
		return nil, fmt.Errorf("pricing.default_mode %q: %w", v.GetString("pricing.default_mode"), err)
	}
	cfg.Pricing = PricingConfig{DefaultMode: mode}

	cfg.Export = ExportConfig{
		KeyPrefix:     strings.Trim(v.GetString("export.key_prefix"), "/"),
		PresignExpiry: v.GetInt64("export.presign_expiry"),
	}
	cfg.Metrics = MetricsConfig{
		Enabled:   v.GetBool("metrics.enabled"),
		Namespace: v.GetString("metrics.namespace"),
	}
	cfg.RateLimit = RateLimitConfig{Rate: strings.TrimSpace(v.GetString("ratelimit.rate"))}

	return cfg, nil
}

// splitList splits a comma-separated value, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
