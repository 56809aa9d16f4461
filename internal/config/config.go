// Package config manages application configuration from files and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/klytics/gy/internal/formats/xlsx"
	"github.com/klytics/gy/internal/reconcile"
)

// DefaultOutput is the file written when no --output is given.
const DefaultOutput = "矿山院月终.xlsx"

// Config holds the application configuration.
type Config struct {
	Output string `mapstructure:"output" yaml:"output" json:"output"`
	Mode   string `mapstructure:"mode" yaml:"mode" json:"mode"`
	Color  bool   `mapstructure:"color" yaml:"color" json:"color"`
	Bonus  struct {
		Factor    string `mapstructure:"factor" yaml:"factor" json:"factor"`
		Precision int32  `mapstructure:"precision" yaml:"precision" json:"precision"`
	} `mapstructure:"bonus" yaml:"bonus" json:"bonus"`
	Layout struct {
		HeaderMarker string `mapstructure:"header_marker" yaml:"header_marker" json:"header_marker"`
		LabelSuffix  string `mapstructure:"label_suffix" yaml:"label_suffix" json:"label_suffix"`
	} `mapstructure:"layout" yaml:"layout" json:"layout"`
}

func setDefaults() {
	def := reconcile.DefaultOptions()
	viper.SetDefault("output", DefaultOutput)
	viper.SetDefault("mode", string(def.Mode))
	viper.SetDefault("color", true)
	viper.SetDefault("bonus.factor", def.BonusFactor.String())
	viper.SetDefault("bonus.precision", def.Precision)
	viper.SetDefault("layout.header_marker", def.HeaderMarker)
	viper.SetDefault("layout.label_suffix", def.LabelSuffix)
}

// Load reads the configuration from ~/.gy/config.yaml and GY_* environment
// variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir())

	setDefaults()

	// Environment variable overrides
	viper.SetEnvPrefix("GY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (non-fatal if missing)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// EngineOptions converts the configuration into reconciliation options.
func (c *Config) EngineOptions() (reconcile.Options, error) {
	mode, err := reconcile.ParseMode(c.Mode)
	if err != nil {
		return reconcile.Options{}, err
	}
	factor, err := decimal.NewFromString(c.Bonus.Factor)
	if err != nil {
		return reconcile.Options{}, fmt.Errorf("bonus.factor %q is not a number: %w", c.Bonus.Factor, err)
	}
	if !factor.IsPositive() {
		return reconcile.Options{}, fmt.Errorf("bonus.factor must be positive, got %s", c.Bonus.Factor)
	}
	if c.Bonus.Precision < 0 {
		return reconcile.Options{}, fmt.Errorf("bonus.precision must not be negative, got %d", c.Bonus.Precision)
	}
	return reconcile.Options{
		Mode:         mode,
		BonusFactor:  factor,
		Precision:    c.Bonus.Precision,
		HeaderMarker: c.Layout.HeaderMarker,
		LabelSuffix:  c.Layout.LabelSuffix,
	}, nil
}

// Issue is one finding of Validate.
type Issue struct {
	Severity string `json:"severity"` // error, warning, info
	Key      string `json:"key"`
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

// Validate checks the configuration and returns everything worth reporting.
// Any issue with severity "error" would make a run fail.
func (c *Config) Validate() []Issue {
	var issues []Issue

	if _, err := reconcile.ParseMode(c.Mode); err != nil {
		issues = append(issues, Issue{"error", "mode", err.Error(), "gy config set mode literal"})
	}
	if f, err := decimal.NewFromString(c.Bonus.Factor); err != nil {
		issues = append(issues, Issue{"error", "bonus.factor", fmt.Sprintf("%q is not a number", c.Bonus.Factor), "gy config set bonus.factor 0.2"})
	} else if !f.IsPositive() {
		issues = append(issues, Issue{"error", "bonus.factor", "must be positive", "gy config set bonus.factor 0.2"})
	}
	if c.Bonus.Precision < 0 {
		issues = append(issues, Issue{"error", "bonus.precision", "must not be negative", "gy config set bonus.precision 4"})
	}
	if err := xlsx.CheckPath(c.Output); err != nil {
		issues = append(issues, Issue{"error", "output", err.Error(), "gy config set output " + DefaultOutput})
	}
	if c.Layout.HeaderMarker == "" {
		issues = append(issues, Issue{"warning", "layout.header_marker", "empty, the default marker will be used", ""})
	}
	if c.Layout.LabelSuffix == "" {
		issues = append(issues, Issue{"warning", "layout.label_suffix", "empty, the default suffix will be used", ""})
	}
	if _, err := os.Stat(ConfigPath()); os.IsNotExist(err) {
		issues = append(issues, Issue{"info", "", "no config file, using defaults", ""})
	}

	return issues
}

// ToEnv returns the loaded settings as GY_* environment variables.
func ToEnv() map[string]string {
	env := make(map[string]string)
	keys := viper.AllKeys()
	sort.Strings(keys)
	for _, k := range keys {
		name := "GY_" + strings.ToUpper(strings.ReplaceAll(k, ".", "_"))
		env[name] = viper.GetString(k)
	}
	return env
}

// Render returns the configuration as YAML.
func (c *Config) Render() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("could not render config: %w", err)
	}
	return string(data), nil
}

// Set sets a config value and saves to disk.
func Set(key, value string) error {
	viper.Set(key, value)
	return SaveConfig()
}

// Get retrieves a config value.
func Get(key string) string {
	return viper.GetString(key)
}

// ResetConfig deletes the config file and restores defaults.
func ResetConfig() error {
	path := ConfigPath()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete config: %w", err)
	}
	viper.Reset()
	setDefaults()
	return nil
}

// SaveConfig writes the current config to ~/.gy/config.yaml.
func SaveConfig() error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}

	os.Chmod(path, 0600)
	return nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gy"
	}
	return filepath.Join(home, ".gy")
}
