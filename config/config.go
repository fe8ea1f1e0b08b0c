package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Cache     CacheConfig
	Search    SearchConfig
	Import    ImportConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	APIKey         string   `mapstructure:"api_key"`
}

// StoreConfig selects and configures the medicine store backend
type StoreConfig struct {
	Type     string `mapstructure:"type"` // "mongo" or "memory"
	MongoURI string `mapstructure:"mongo_uri"`
	Database string `mapstructure:"database"`
}

// CacheConfig holds the per-instance cache policies. The hot search cache
// is deliberately short-lived; the pincode cache holds effectively static
// data for a day.
type CacheConfig struct {
	SearchTTL       time.Duration `mapstructure:"search_ttl"`
	SearchCapacity  int           `mapstructure:"search_capacity"`
	PincodeTTL      time.Duration `mapstructure:"pincode_ttl"`
	PincodeCapacity int           `mapstructure:"pincode_capacity"`
}

// SearchConfig holds search engine configuration
type SearchConfig struct {
	RelevanceEnabled bool `mapstructure:"relevance_enabled"`
}

// ImportConfig holds CSV import configuration
type ImportConfig struct {
	CSVPath string `mapstructure:"csv_path"`
}

// RateLimitConfig holds per-IP rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per second
	Burst int `mapstructure:"burst"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/medisearch/")

	// Environment variable settings
	v.SetEnvPrefix("MEDISEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Store defaults
	v.SetDefault("store.type", "mongo")
	v.SetDefault("store.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("store.database", "medisearch")

	// Cache defaults: 30s hot search cache, 24h pincode cache
	v.SetDefault("cache.search_ttl", "30s")
	v.SetDefault("cache.search_capacity", 500)
	v.SetDefault("cache.pincode_ttl", "24h")
	v.SetDefault("cache.pincode_capacity", 5000)

	// Search defaults
	v.SetDefault("search.relevance_enabled", true)

	// Import defaults
	v.SetDefault("import.csv_path", "A_Z_medicines_dataset_of_India.csv")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 20)
	v.SetDefault("ratelimit.burst", 40)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Store.Type != "mongo" && config.Store.Type != "memory" {
		return fmt.Errorf("store type must be 'mongo' or 'memory', got: %s", config.Store.Type)
	}

	if config.Store.Type == "mongo" && config.Store.MongoURI == "" {
		return fmt.Errorf("Mongo URI is required when store type is 'mongo'")
	}

	if config.Server.Environment == "production" && config.Server.APIKey == "" {
		return fmt.Errorf("API key is required in production (set MEDISEARCH_SERVER_API_KEY)")
	}

	if config.Cache.SearchCapacity < 1 || config.Cache.PincodeCapacity < 1 {
		return fmt.Errorf("cache capacities must be positive")
	}

	return nil
}
