package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is shared by the CLI and the development API server.
type Config struct {
	AppEnv   string
	LogLevel string

	GRPCPort int
	HTTPPort int

	APIBaseURL     string
	APITimeout     time.Duration
	SearchDebounce time.Duration
	TaxRate        decimal.Decimal

	StorageDriver string
	StorageDSN    string

	CatalogDriver string
	Postgres      Postgres

	JWTSecret      string
	TokenTTL       time.Duration
	RateLimitRPS   int
	RateLimitBurst int
}

type Postgres struct {
	Host    string
	Port    int
	User    string
	Pass    string
	DB      string
	SSLMode string
}

// fileConfig mirrors the YAML layout. Durations and the tax rate stay strings
// so that a malformed value falls back to the default instead of failing.
type fileConfig struct {
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`
	GRPCPort int    `yaml:"grpc_port"`
	HTTPPort int    `yaml:"http_port"`

	API struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`

	Catalog struct {
		Driver         string `yaml:"driver"`
		SearchDebounce string `yaml:"search_debounce"`
	} `yaml:"catalog"`

	Pricing struct {
		TaxRate string `yaml:"tax_rate"`
	} `yaml:"pricing"`

	Storage struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"storage"`

	Postgres struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DB       string `yaml:"db"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"postgres"`

	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
		TokenTTL  string `yaml:"token_ttl"`
	} `yaml:"auth"`

	RateLimit struct {
		RPS   int `yaml:"rps"`
		Burst int `yaml:"burst"`
	} `yaml:"rate_limit"`
}

func Default() Config {
	return Config{
		AppEnv:         "dev",
		LogLevel:       "info",
		HTTPPort:       8000,
		GRPCPort:       8001,
		APIBaseURL:     "http://localhost:8000",
		APITimeout:     10 * time.Second,
		SearchDebounce: 300 * time.Millisecond,
		TaxRate:        decimal.RequireFromString("0.085"),
		StorageDriver:  "sqlite",
		StorageDSN:     defaultStoragePath(),
		CatalogDriver:  "memory",
		Postgres: Postgres{
			Host:    "localhost",
			Port:    5432,
			User:    "shopping",
			Pass:    "shoppingpassword",
			DB:      "shopping_db",
			SSLMode: "disable",
		},
		JWTSecret:      "dev-secret-change-me",
		TokenTTL:       24 * time.Hour,
		RateLimitRPS:   20,
		RateLimitBurst: 40,
	}
}

// Load builds the config from defaults, the optional YAML file named by
// STOREFRONT_CONFIG, and environment variables, in that order of precedence.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("STOREFRONT_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.mergeEnv()
	return cfg, nil
}

// LoadFile is Load with an explicit file path; env still wins.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.mergeEnv()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&c.AppEnv, fc.AppEnv)
	setString(&c.LogLevel, fc.LogLevel)
	setInt(&c.GRPCPort, fc.GRPCPort)
	setInt(&c.HTTPPort, fc.HTTPPort)
	setString(&c.APIBaseURL, fc.API.BaseURL)
	setDuration(&c.APITimeout, fc.API.Timeout)
	setString(&c.CatalogDriver, fc.Catalog.Driver)
	setDuration(&c.SearchDebounce, fc.Catalog.SearchDebounce)
	setDecimal(&c.TaxRate, fc.Pricing.TaxRate)
	setString(&c.StorageDriver, fc.Storage.Driver)
	setString(&c.StorageDSN, fc.Storage.DSN)
	setString(&c.Postgres.Host, fc.Postgres.Host)
	setInt(&c.Postgres.Port, fc.Postgres.Port)
	setString(&c.Postgres.User, fc.Postgres.User)
	setString(&c.Postgres.Pass, fc.Postgres.Password)
	setString(&c.Postgres.DB, fc.Postgres.DB)
	setString(&c.Postgres.SSLMode, fc.Postgres.SSLMode)
	setString(&c.JWTSecret, fc.Auth.JWTSecret)
	setDuration(&c.TokenTTL, fc.Auth.TokenTTL)
	setInt(&c.RateLimitRPS, fc.RateLimit.RPS)
	setInt(&c.RateLimitBurst, fc.RateLimit.Burst)
	return nil
}

func (c *Config) mergeEnv() {
	c.AppEnv = getEnv("APP_ENV", c.AppEnv)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.HTTPPort = getEnvInt("HTTP_PORT", c.HTTPPort)
	c.GRPCPort = getEnvInt("GRPC_PORT", c.GRPCPort)
	c.APIBaseURL = getEnv("API_BASE_URL", c.APIBaseURL)
	c.APITimeout = getEnvDuration("API_TIMEOUT", c.APITimeout)
	c.SearchDebounce = getEnvDuration("SEARCH_DEBOUNCE", c.SearchDebounce)
	setDecimal(&c.TaxRate, os.Getenv("TAX_RATE"))
	c.StorageDriver = getEnv("STORAGE_DRIVER", c.StorageDriver)
	c.StorageDSN = getEnv("STORAGE_DSN", c.StorageDSN)
	c.CatalogDriver = getEnv("CATALOG_DRIVER", c.CatalogDriver)
	c.Postgres.Host = getEnv("POSTGRES_HOST", c.Postgres.Host)
	c.Postgres.Port = getEnvInt("POSTGRES_PORT", c.Postgres.Port)
	c.Postgres.User = getEnv("POSTGRES_USER", c.Postgres.User)
	c.Postgres.Pass = getEnv("POSTGRES_PASSWORD", c.Postgres.Pass)
	c.Postgres.DB = getEnv("POSTGRES_DB", c.Postgres.DB)
	c.Postgres.SSLMode = getEnv("POSTGRES_SSLMODE", c.Postgres.SSLMode)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.TokenTTL = getEnvDuration("TOKEN_TTL", c.TokenTTL)
	c.RateLimitRPS = getEnvInt("RATE_LIMIT_RPS", c.RateLimitRPS)
	c.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", c.RateLimitBurst)
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "storefront.db"
	}
	return dir + string(os.PathSeparator) + "storefront" + string(os.PathSeparator) + "storefront.db"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) {
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		*dst = d
	}
}

func setDecimal(dst *decimal.Decimal, v string) {
	if v == "" {
		return
	}
	if d, err := decimal.NewFromString(v); err == nil && !d.IsNegative() {
		*dst = d
	}
}
