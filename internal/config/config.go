package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// ExtraMass defines an operator-configured additional mass expanded from a
// recurrence rule when generating the calendar, for celebrations the built-in
// sanctuary rules do not cover.
type ExtraMass struct {
	RRule        string `yaml:"rrule" validate:"required"`
	Time         string `yaml:"time" validate:"required"`
	MassType     string `yaml:"massType" validate:"required"`
	MinMinisters int    `yaml:"minMinisters" validate:"min=1"`
	MaxMinisters int    `yaml:"maxMinisters" validate:"min=1"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL string      `yaml:"databaseURL" validate:"required"`
	ExtraMasses []ExtraMass `yaml:"extraMasses,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration for an environment.
// It looks for sanctuary_config.<env>.yaml, falling back to
// sanctuary_config.yaml, in the current directory first and then in the
// user's home directory.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
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

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, extra := range cfg.ExtraMasses {
		if _, err := rrule.StrToRRule(extra.RRule); err != nil {
			return fmt.Errorf("invalid rrule in extraMasses[%d]: %w", i, err)
		}
		if extra.MaxMinisters < extra.MinMinisters {
			return fmt.Errorf("extraMasses[%d]: maxMinisters below minMinisters", i)
		}
	}

	return nil
}

// findConfigFile searches for the environment config file in the current
// directory and the home directory
func findConfigFile(env string) (string, error) {
	candidates := []string{
		fmt.Sprintf("sanctuary_config.%s.yaml", env),
		"sanctuary_config.yaml",
	}

	homeDir, homeErr := os.UserHomeDir()

	for _, name := range candidates {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
		if homeErr == nil {
			homePath := filepath.Join(homeDir, name)
			if _, err := os.Stat(homePath); err == nil {
				return homePath, nil
			}
		}
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
