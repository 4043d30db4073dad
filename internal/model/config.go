package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DatabaseConfig holds settings for the local SQLite database.
type DatabaseConfig struct {
	// Path is the SQLite database file location.
	Path string `mapstructure:"path" yaml:"path"`
}

// ReminderConfig holds reminder and alarm behavior settings.
type ReminderConfig struct {
	// DefaultSnoozeMinutes is how far a snoozed alarm is pushed out.
	DefaultSnoozeMinutes int `mapstructure:"default_snooze_minutes" yaml:"default_snooze_minutes"`

	// LeadMinutes is how long before the alarm the upcoming pre-alert
	// is shown.
	LeadMinutes int `mapstructure:"lead_minutes" yaml:"lead_minutes"`

	// FirePastDue controls what happens when an offset policy computes
	// a fire time that has already passed: fire immediately when true,
	// reject the reminder when false.
	FirePastDue bool `mapstructure:"fire_past_due" yaml:"fire_past_due"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database  DatabaseConfig `mapstructure:"database" yaml:"database"`
	Reminders ReminderConfig `mapstructure:"reminders" yaml:"reminders"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskreminders/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskreminders", "config.yaml")
}

// defaultDatabasePath returns the default SQLite location next to the
// config file.
func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "reminders.db")
	}
	return filepath.Join(home, ".config", "taskreminders", "reminders.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{
			Path: defaultDatabasePath(),
		},
		Reminders: ReminderConfig{
			DefaultSnoozeMinutes: 10,
			LeadMinutes:          60,
			FirePastDue:          true,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("database.path", defaultDatabasePath())
	v.SetDefault("reminders.default_snooze_minutes", 10)
	v.SetDefault("reminders.lead_minutes", 60)
	v.SetDefault("reminders.fire_past_due", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Reminders.DefaultSnoozeMinutes <= 0 {
		cfg.Reminders.DefaultSnoozeMinutes = 10
	}
	if cfg.Reminders.LeadMinutes <= 0 {
		cfg.Reminders.LeadMinutes = 60
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("reminders", cfg.Reminders)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
