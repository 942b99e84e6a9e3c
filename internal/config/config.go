package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the poidex service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Nominatim NominatimConfig `yaml:"nominatim"`
	Overpass  OverpassConfig  `yaml:"overpass"`
	Search    SearchConfig    `yaml:"search"`
	Retry     RetryConfig     `yaml:"retry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// NominatimConfig holds geocoding service settings.
type NominatimConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
	UserAgent  string `yaml:"user_agent"`
}

// OverpassConfig holds point-of-interest service settings.
type OverpassConfig struct {
	BaseURL           string `yaml:"base_url"`
	AttemptTimeoutSec int    `yaml:"attempt_timeout_sec"`
}

// SearchConfig holds spatial query parameters.
type SearchConfig struct {
	RadiusMeters    int      `yaml:"radius_meters"`
	ResultLimit     int      `yaml:"result_limit"`
	AmenityDenylist []string `yaml:"amenity_denylist"`
}

// RetryConfig holds fetch retry settings.
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
	DelayMs     int `yaml:"delay_ms"`
}

// DefaultAmenityDenylist lists the amenity values excluded from spatial
// queries. The amenity key is overly broad; without the denylist results
// fill up with schools, banks and other non-touristic infrastructure.
var DefaultAmenityDenylist = []string{
	"school", "kindergarten", "university", "college",
	"bank", "atm", "pharmacy", "hospital", "clinic", "doctors", "dentist",
	"parking", "fuel", "car_wash",
	"police", "fire_station", "post_office",
	"place_of_worship", "grave_yard",
	"toilets", "waste_disposal", "recycling",
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Nominatim.BaseURL == "" {
		c.Nominatim.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if c.Nominatim.TimeoutSec <= 0 {
		c.Nominatim.TimeoutSec = 10
	}
	if c.Nominatim.UserAgent == "" {
		c.Nominatim.UserAgent = "poidex/1.0"
	}
	if c.Overpass.BaseURL == "" {
		c.Overpass.BaseURL = "https://overpass-api.de/api/interpreter"
	}
	if c.Overpass.AttemptTimeoutSec <= 0 {
		c.Overpass.AttemptTimeoutSec = 60
	}
	if c.Search.RadiusMeters <= 0 {
		c.Search.RadiusMeters = 50000
	}
	if c.Search.ResultLimit <= 0 {
		c.Search.ResultLimit = 20
	}
	if c.Search.AmenityDenylist == nil {
		c.Search.AmenityDenylist = DefaultAmenityDenylist
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Retry.DelayMs <= 0 {
		c.Retry.DelayMs = 5000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if !strings.HasPrefix(c.Nominatim.BaseURL, "http") {
		return fmt.Errorf("nominatim.base_url must be an http(s) URL, got %q", c.Nominatim.BaseURL)
	}
	if !strings.HasPrefix(c.Overpass.BaseURL, "http") {
		return fmt.Errorf("overpass.base_url must be an http(s) URL, got %q", c.Overpass.BaseURL)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
