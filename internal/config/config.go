package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/printshop-os/inventory_api/pkg/sanmar"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	Redis        RedisConfig
	Cache        CacheConfig
	Strapi       StrapiConfig
	ASColour     ASColourConfig
	SSActivewear SSActivewearConfig
	SanMar       SanMarConfig
	Worker       WorkerConfig
	Sync         SyncConfig
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// CacheConfig controls the inventory cache. CostPerCall is the estimated
// dollar cost of one avoided supplier API call, used for the savings stat.
type CacheConfig struct {
	Disabled    bool
	TTL         time.Duration
	CostPerCall float64
}

// StrapiConfig contains CMS connection parameters.
type StrapiConfig struct {
	URL      string
	APIToken string
}

// ASColourConfig contains AS Colour API credentials. Email and password are
// optional; without them pricing lookups are skipped.
type ASColourConfig struct {
	APIKey   string
	Email    string
	Password string
}

// Configured reports whether the minimum credentials are present.
func (c ASColourConfig) Configured() bool { return c.APIKey != "" }

// SSActivewearConfig contains S&S Activewear API credentials.
type SSActivewearConfig struct {
	AccountNumber string
	APIKey        string
}

// Configured reports whether the minimum credentials are present.
func (c SSActivewearConfig) Configured() bool { return c.AccountNumber != "" && c.APIKey != "" }

// SanMarConfig contains SFTP credentials and bulk file locations.
type SanMarConfig struct {
	SFTPHost     string
	SFTPPort     int
	SFTPUsername string
	SFTPPassword string
	RemoteDir    string
	DataDir      string
	ProductFile  string
	SKUFile      string
	DeltaFile    string
}

// Configured reports whether SFTP credentials are present. The catalog can
// still serve previously downloaded files without them.
func (c SanMarConfig) Configured() bool {
	return c.SFTPHost != "" && c.SFTPUsername != "" && c.SFTPPassword != ""
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	SanMarFullSyncInterval  time.Duration
	SanMarDeltaSyncInterval time.Duration
	CatalogSyncInterval     time.Duration
	InventoryRefreshPeriod  time.Duration
}

// SyncConfig controls the top-product sync runs.
type SyncConfig struct {
	TopProductLimit int
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. Missing supplier or
// Redis settings are not errors: unconfigured suppliers simply do not
// register and the cache degrades to a no-op.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Cache
	cfg.Cache = CacheConfig{
		Disabled:    getEnvBool("CACHE_DISABLED", false),
		CostPerCall: getEnvFloat("CACHE_COST_PER_CALL", 0.01),
	}

	// CMS
	cfg.Strapi = StrapiConfig{
		URL:      getEnv("STRAPI_URL", "http://localhost:1337"),
		APIToken: getEnv("STRAPI_API_TOKEN", ""),
	}

	// Suppliers
	cfg.ASColour = ASColourConfig{
		APIKey:   getEnv("ASCOLOUR_API_KEY", ""),
		Email:    getEnv("ASCOLOUR_EMAIL", ""),
		Password: getEnv("ASCOLOUR_PASSWORD", ""),
	}
	cfg.SSActivewear = SSActivewearConfig{
		AccountNumber: getEnv("SS_ACTIVEWEAR_ACCOUNT_NUMBER", ""),
		APIKey:        getEnv("SS_ACTIVEWEAR_API_KEY", ""),
	}
	cfg.SanMar = SanMarConfig{
		SFTPHost:     getEnv("SANMAR_SFTP_HOST", ""),
		SFTPPort:     getEnvInt("SANMAR_SFTP_PORT", 22),
		SFTPUsername: getEnv("SANMAR_SFTP_USERNAME", ""),
		SFTPPassword: getEnv("SANMAR_SFTP_PASSWORD", ""),
		RemoteDir:    getEnv("SANMAR_REMOTE_DIR", "/SanMarPDD"),
		DataDir:      getEnv("SANMAR_DATA_DIR", "data/sanmar"),
		ProductFile:  getEnv("SANMAR_PRODUCT_FILE", sanmar.DefaultProductFile),
		SKUFile:      getEnv("SANMAR_SKU_FILE", sanmar.DefaultSKUFile),
		DeltaFile:    getEnv("SANMAR_DELTA_FILE", sanmar.DefaultDeltaFile),
	}

	// Sync
	cfg.Sync = SyncConfig{
		TopProductLimit: getEnvInt("TOP_PRODUCT_LIMIT", 500),
	}

	// Durations
	var err error
	if cfg.Cache.TTL, err = parseDurationEnv("INVENTORY_CACHE_TTL", "15m"); err != nil {
		return nil, fmt.Errorf("invalid INVENTORY_CACHE_TTL: %w", err)
	}
	if cfg.Worker.SanMarFullSyncInterval, err = parseDurationEnv("SANMAR_FULL_SYNC_INTERVAL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid SANMAR_FULL_SYNC_INTERVAL: %w", err)
	}
	if cfg.Worker.SanMarDeltaSyncInterval, err = parseDurationEnv("SANMAR_DELTA_SYNC_INTERVAL", "1h"); err != nil {
		return nil, fmt.Errorf("invalid SANMAR_DELTA_SYNC_INTERVAL: %w", err)
	}
	if cfg.Worker.CatalogSyncInterval, err = parseDurationEnv("CATALOG_SYNC_INTERVAL", "168h"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_SYNC_INTERVAL: %w", err)
	}
	if cfg.Worker.InventoryRefreshPeriod, err = parseDurationEnv("INVENTORY_REFRESH_INTERVAL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid INVENTORY_REFRESH_INTERVAL: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getEnvFloat returns the value of an environment variable as a float or a default if empty/invalid.
func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// getEnvBool returns the value of an environment variable as a bool or a default if empty/invalid.
func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
