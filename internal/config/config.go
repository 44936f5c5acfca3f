// Package config provides configuration loading and validation for the job portal.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonathan/jobportal/internal/geo"
)

// Defaults applied by MergeWithDefaults when neither the file nor the
// environment sets a value.
const (
	DefaultPort           = 8080
	DefaultNearbyRadiusKm = 10.0
	DefaultFallbackSize   = 8
	DefaultKafkaTopic     = "application-status"
)

// Config represents the server configuration that can be loaded from a JSON file.
// Every field is optional; FromEnv and Defaults fill the gaps.
type Config struct {
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty"`

	// Map behaviour
	DefaultLatitude   *float64 `json:"default_latitude,omitempty"`  // Reference for viewers without a stored location
	DefaultLongitude  *float64 `json:"default_longitude,omitempty"` // Reference for viewers without a stored location
	NearbyRadiusKm    float64  `json:"nearby_radius_km,omitempty"`  // Radius used when a nearby query omits one
	FallbackSize      int      `json:"fallback_size,omitempty"`     // Sample records generated when no real data is usable
	DistanceEstimator string   `json:"distance_estimator,omitempty"` // "approx" or "haversine"

	// Events
	KafkaBrokers []string `json:"kafka_brokers,omitempty"`
	KafkaTopic   string   `json:"kafka_topic,omitempty"`

	// Career assistant
	APIKey    string `json:"api_key,omitempty"`    // Gemini API key
	ChatModel string `json:"chat_model,omitempty"` // Overrides the default Gemini model
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads the same settings from environment variables. Unset or
// unparseable variables leave the field zero.
func FromEnv() Config {
	cfg := Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DistanceEstimator: os.Getenv("DISTANCE_ESTIMATOR"),
		KafkaTopic:        os.Getenv("KAFKA_TOPIC"),
		APIKey:            os.Getenv("GEMINI_API_KEY"),
		ChatModel:         os.Getenv("GEMINI_CHAT_MODEL"),
	}
	if v, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		cfg.Port = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("NEARBY_RADIUS_KM"), 64); err == nil {
		cfg.NearbyRadiusKm = v
	}
	if v, err := strconv.Atoi(os.Getenv("FALLBACK_SIZE")); err == nil {
		cfg.FallbackSize = v
	}
	cfg.DefaultLatitude = geo.Coerce(os.Getenv("DEFAULT_LATITUDE"))
	cfg.DefaultLongitude = geo.Coerce(os.Getenv("DEFAULT_LONGITUDE"))
	for _, b := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}
	return cfg
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	lat, lon := 40.7128, -74.0060
	return Config{
		Port:              DefaultPort,
		DefaultLatitude:   &lat,
		DefaultLongitude:  &lon,
		NearbyRadiusKm:    DefaultNearbyRadiusKm,
		FallbackSize:      DefaultFallbackSize,
		DistanceEstimator: geo.EstimatorApprox,
		KafkaTopic:        DefaultKafkaTopic,
	}
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the command that needs them.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if (c.DefaultLatitude == nil) != (c.DefaultLongitude == nil) {
		return fmt.Errorf("config error: 'default_latitude' and 'default_longitude' must be set together")
	}
	if c.DefaultLatitude != nil {
		ref := geo.Coordinate{Latitude: *c.DefaultLatitude, Longitude: *c.DefaultLongitude}
		if !ref.Valid() {
			return fmt.Errorf("config error: default reference %v is not a valid coordinate", ref)
		}
	}
	if c.NearbyRadiusKm < 0 {
		return fmt.Errorf("config error: 'nearby_radius_km' must be non-negative")
	}
	if c.FallbackSize < 0 {
		return fmt.Errorf("config error: 'fallback_size' must be non-negative")
	}
	if _, err := geo.ParseEstimator(c.DistanceEstimator); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
// Config files are merged over the environment, and both over Defaults().
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DefaultLatitude == nil && result.DefaultLongitude == nil {
		result.DefaultLatitude = defaults.DefaultLatitude
		result.DefaultLongitude = defaults.DefaultLongitude
	}
	if result.NearbyRadiusKm == 0 {
		result.NearbyRadiusKm = defaults.NearbyRadiusKm
	}
	if result.FallbackSize == 0 {
		result.FallbackSize = defaults.FallbackSize
	}
	if result.DistanceEstimator == "" {
		result.DistanceEstimator = defaults.DistanceEstimator
	}
	if len(result.KafkaBrokers) == 0 {
		result.KafkaBrokers = defaults.KafkaBrokers
	}
	if result.KafkaTopic == "" {
		result.KafkaTopic = defaults.KafkaTopic
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.ChatModel == "" {
		result.ChatModel = defaults.ChatModel
	}

	return result
}

// DefaultReference returns the configured reference coordinate, or false if
// none is set.
func (c *Config) DefaultReference() (geo.Coordinate, bool) {
	if c.DefaultLatitude == nil || c.DefaultLongitude == nil {
		return geo.Coordinate{}, false
	}
	return geo.Coordinate{Latitude: *c.DefaultLatitude, Longitude: *c.DefaultLongitude}, true
}

// Resolve layers a config file (optional) over the environment and the
// built-in defaults, then validates the result.
func Resolve(path string) (Config, error) {
	env := FromEnv()
	base := env.MergeWithDefaults(Defaults())
	if path == "" {
		if err := base.Validate(); err != nil {
			return Config{}, err
		}
		return base, nil
	}

	fileCfg, err := LoadConfig(path)
	if err != nil {
		return Config{}, err
	}
	merged := fileCfg.MergeWithDefaults(base)
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}
