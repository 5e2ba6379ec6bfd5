package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	SourceAPI      = "api"
	SourcePostgres = "postgres"

	defaultServerAddr = ":8080"

	envAPIURL      = "ROSTER_API_URL"
	envDatabaseURL = "ROSTER_DATABASE_URL"
)

// ServerConfig configures the read-only view server
type ServerConfig struct {
	Addr           string   `yaml:"addr" validate:"required"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty" validate:"dive,required"`
}

// Config represents the application configuration
type Config struct {
	Source        string       `yaml:"source" validate:"required,oneof=api postgres"`
	APIBaseURL    string       `yaml:"apiBaseURL,omitempty" validate:"required_if=Source api"`
	DatabaseURL   string       `yaml:"databaseURL,omitempty" validate:"required_if=Source postgres"`
	Username      string       `yaml:"username,omitempty" validate:"required_if=Source postgres"` // Current user when reading from postgres
	WeekStart     string       `yaml:"weekStart,omitempty" validate:"omitempty,oneof=sunday monday"`
	HolidayRules  []string     `yaml:"holidayRules,omitempty" validate:"dive,required"`
	ExportSheetID string       `yaml:"exportSheetID,omitempty"`
	Server        ServerConfig `yaml:"server"`
}

// WeekStartDay returns the first day of calendar weeks. Weeks start on Sunday unless configured otherwise.
func (c *Config) WeekStartDay() time.Weekday {
	if c.WeekStart == "monday" {
		return time.Monday
	}
	return time.Sunday
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from roster_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration for an environment, e.g. env="test" reads
// roster_config.test.yaml. Variables from .env and .env.<env> are loaded first and
// ROSTER_API_URL / ROSTER_DATABASE_URL override the file.
func LoadWithEnv(env string) (*Config, error) {
	loadDotEnv(env)

	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// loadDotEnv loads optional dotenv files. Missing files are ignored and existing
// environment variables are never overwritten.
func loadDotEnv(env string) {
	_ = godotenv.Load(".env")
	if env != "" {
		_ = godotenv.Load(".env." + env)
	}
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envAPIURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(envDatabaseURL); v != "" {
		cfg.DatabaseURL = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultServerAddr
	}
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.APIBaseURL != "" {
		u, err := url.ParseRequestURI(cfg.APIBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid apiBaseURL %q", cfg.APIBaseURL)
		}
	}

	for i, rule := range cfg.HolidayRules {
		if _, err := rrule.StrToROption(rule); err != nil {
			return fmt.Errorf("invalid rrule in holidayRules[%d]: %w", i, err)
		}
	}

	return nil
}

// findConfigFile searches for roster_config.yaml in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "roster_config.test.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := "roster_config.yaml"
	if env != "" {
		configFileName = "roster_config." + env + ".yaml"
	}
	return findFile(configFileName)
}
