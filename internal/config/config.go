package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/lostfound/internal/domain/match"
	"github.com/kailas-cloud/lostfound/internal/domain/verify"
)

// Config holds the lostfound API configuration.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Database     DatabaseConfig     `yaml:"database"`
	Auth         AuthConfig         `yaml:"auth"`
	Storage      StorageConfig      `yaml:"storage"`
	Listing      ListingConfig      `yaml:"listing"`
	Matching     MatchingConfig     `yaml:"matching"`
	Verification VerificationConfig `yaml:"verification"`
	Health       HealthConfig       `yaml:"health"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int   `yaml:"port"`
	ReadTimeoutSec  int   `yaml:"read_timeout_sec"`
	WriteTimeoutSec int   `yaml:"write_timeout_sec"`
	ShutdownSec     int   `yaml:"shutdown_timeout_sec"`
	MaxBodyBytes    int64 `yaml:"max_body_bytes"`
}

// DatabaseConfig holds Redis/Valkey connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	DialTimeoutMs    int      `yaml:"dial_timeout_ms"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// ListingConfig holds pagination settings for report listings.
type ListingConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// HealthConfig holds health check limits.
type HealthConfig struct {
	TimeoutMs int `yaml:"timeout_ms"`
	SlowMs    int `yaml:"slow_ms"`
}

// MatchingConfig overrides scorer weights. Unset fields keep their defaults,
// so an explicit 0 switches a criterion off.
type MatchingConfig struct {
	CategoryWeight    *float64 `yaml:"category_weight"`
	TitleWeight       *float64 `yaml:"title_weight"`
	LocationWeight    *float64 `yaml:"location_weight"`
	DateNearWeight    *float64 `yaml:"date_near_weight"`
	DateFarWeight     *float64 `yaml:"date_far_weight"`
	NearDays          *float64 `yaml:"near_days"`
	FarDays           *float64 `yaml:"far_days"`
	MinPercentage     *int     `yaml:"min_percentage"`
	ConditionalMaxima bool     `yaml:"conditional_maxima"`
}

// Weights resolves the configured scorer weights on top of the defaults.
func (m MatchingConfig) Weights() match.Weights {
	w := match.DefaultWeights()
	setF(&w.Category, m.CategoryWeight)
	setF(&w.Title, m.TitleWeight)
	setF(&w.Location, m.LocationWeight)
	setF(&w.DateNear, m.DateNearWeight)
	setF(&w.DateFar, m.DateFarWeight)
	setF(&w.NearDays, m.NearDays)
	setF(&w.FarDays, m.FarDays)
	setI(&w.MinPercentage, m.MinPercentage)
	w.ConditionalMaxima = m.ConditionalMaxima
	return w
}

// VerificationConfig overrides answer scoring thresholds. Unset fields keep their defaults.
type VerificationConfig struct {
	ExactPoints       *int `yaml:"exact_points"`
	KeywordPoints     *int `yaml:"keyword_points"`
	ContainsPoints    *int `yaml:"contains_points"`
	ExpectedMax       *int `yaml:"expected_max"`
	OpenMax           *int `yaml:"open_max"`
	OpenPartialPoints *int `yaml:"open_partial_points"`
	OpenFullLen       *int `yaml:"open_full_len"`
	OpenPartialLen    *int `yaml:"open_partial_len"`
	KeywordMinLen     *int `yaml:"keyword_min_len"`
	PassThreshold     *int `yaml:"pass_threshold"`
}

// Thresholds resolves the configured verifier thresholds on top of the defaults.
func (v VerificationConfig) Thresholds() verify.Thresholds {
	t := verify.DefaultThresholds()
	setI(&t.ExactPoints, v.ExactPoints)
	setI(&t.KeywordPoints, v.KeywordPoints)
	setI(&t.ContainsPoints, v.ContainsPoints)
	setI(&t.ExpectedMax, v.ExpectedMax)
	setI(&t.OpenMax, v.OpenMax)
	setI(&t.OpenPartialPoints, v.OpenPartialPoints)
	setI(&t.OpenFullLen, v.OpenFullLen)
	setI(&t.OpenPartialLen, v.OpenPartialLen)
	setI(&t.KeywordMinLen, v.KeywordMinLen)
	setI(&t.PassThreshold, v.PassThreshold)
	return t
}

func setF(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setI(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	cfg, err := readFile(configPath)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadScoring reads a config file for offline tools: only the matching and
// verification sections are validated.
func LoadScoring(path string) (Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.validateScoring(); err != nil {
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

func readFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse expands ${VAR} references, decodes YAML and applies defaults.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()
	return cfg, nil
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
	if c.HTTP.MaxBodyBytes <= 0 {
		c.HTTP.MaxBodyBytes = 1 << 20
	}
	if c.Database.DialTimeoutMs <= 0 {
		c.Database.DialTimeoutMs = 5000
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "lostfound:"
	}
	if c.Listing.DefaultPageSize <= 0 {
		c.Listing.DefaultPageSize = 20
	}
	if c.Listing.MaxPageSize <= 0 {
		c.Listing.MaxPageSize = 100
	}
	if c.Health.TimeoutMs <= 0 {
		c.Health.TimeoutMs = 2000
	}
	if c.Health.SlowMs <= 0 {
		c.Health.SlowMs = 250
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return errors.New("database.addrs is required")
	}
	if c.Database.DB < 0 {
		return fmt.Errorf("database.db must not be negative, got %d", c.Database.DB)
	}
	if c.Listing.DefaultPageSize > c.Listing.MaxPageSize {
		return fmt.Errorf(
			"listing.default_page_size (%d) must not exceed listing.max_page_size (%d)",
			c.Listing.DefaultPageSize, c.Listing.MaxPageSize,
		)
	}
	for i, k := range c.Auth.APIKeys {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("auth.api_keys[%d] is empty", i)
		}
	}
	return c.validateScoring()
}

func (c *Config) validateScoring() error {
	if err := c.Matching.Weights().Validate(); err != nil {
		return fmt.Errorf("matching: %w", err)
	}
	if err := c.Verification.Thresholds().Validate(); err != nil {
		return fmt.Errorf("verification: %w", err)
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
