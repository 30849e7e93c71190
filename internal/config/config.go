// Package config handles loading, validating, and managing configuration
// for the anvil markup toolkit.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the top-level anvil configuration.
type Config struct {
	Calendar   CalendarConfig   `yaml:"calendar"   mapstructure:"calendar"`
	Pagination PaginationConfig `yaml:"pagination" mapstructure:"pagination"`
	Server     ServerConfig     `yaml:"server"     mapstructure:"server"`
	Log        LogConfig        `yaml:"log"        mapstructure:"log"`
}

// CalendarConfig controls calendar rendering.
type CalendarConfig struct {
	HighlightToday bool   `yaml:"highlightToday" mapstructure:"highlightToday"`
	DayValues      string `yaml:"dayValues"      mapstructure:"dayValues"`
	ICSFile        string `yaml:"icsFile"        mapstructure:"icsFile"`
	Markdown       bool   `yaml:"markdown"       mapstructure:"markdown"`
}

// PaginationConfig controls pagination rendering.
type PaginationConfig struct {
	PerPage     int    `yaml:"perPage"     mapstructure:"perPage"`
	LinkClasses string `yaml:"linkClasses" mapstructure:"linkClasses"`
	BaseURL     string `yaml:"baseURL"     mapstructure:"baseURL"`
}

// ServerConfig controls the preview server.
type ServerConfig struct {
	Port       int    `yaml:"port"       mapstructure:"port"`
	Host       string `yaml:"host"       mapstructure:"host"`
	LiveReload bool   `yaml:"livereload" mapstructure:"livereload"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `yaml:"level"  mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Calendar: CalendarConfig{
			HighlightToday: true,
		},
		Pagination: PaginationConfig{
			PerPage: 20,
			BaseURL: "/",
		},
		Server: ServerConfig{
			Port:       1414,
			Host:       "localhost",
			LiveReload: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a configuration file from configPath (YAML or TOML) and returns
// a Config with defaults applied first and file values overlaid on top.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	v := viper.New()

	ext := strings.TrimPrefix(filepath.Ext(configPath), ".")
	switch ext {
	case "toml":
		v.SetConfigType("toml")
	default:
		v.SetConfigType("yaml")
	}

	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Relative data paths are resolved against the config file's directory.
	dir := filepath.Dir(configPath)
	cfg.Calendar.DayValues = resolvePath(dir, cfg.Calendar.DayValues)
	cfg.Calendar.ICSFile = resolvePath(dir, cfg.Calendar.ICSFile)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Validate checks the Config for common errors.
func (c *Config) Validate() error {
	if c.Pagination.PerPage < 0 {
		return fmt.Errorf("config: pagination.perPage must not be negative (got %d)", c.Pagination.PerPage)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be between 1 and 65535 (got %d)", c.Server.Port)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be \"text\" or \"json\" (got %q)", c.Log.Format)
	}

	return nil
}

// WithOverrides applies CLI flag overrides to the config. Known keys are
// mapped to their corresponding struct fields. The modified config is returned
// for convenient chaining.
func (c *Config) WithOverrides(overrides map[string]any) *Config {
	for key, val := range overrides {
		switch key {
		case "port":
			if n, ok := val.(int); ok {
				c.Server.Port = n
			}
		case "host":
			if s, ok := val.(string); ok {
				c.Server.Host = s
			}
		case "livereload":
			if b, ok := val.(bool); ok {
				c.Server.LiveReload = b
			}
		case "perPage":
			if n, ok := val.(int); ok {
				c.Pagination.PerPage = n
			}
		case "linkClasses":
			if s, ok := val.(string); ok {
				c.Pagination.LinkClasses = s
			}
		case "baseURL":
			if s, ok := val.(string); ok {
				c.Pagination.BaseURL = s
			}
		case "highlightToday":
			if b, ok := val.(bool); ok {
				c.Calendar.HighlightToday = b
			}
		case "dayValues":
			if s, ok := val.(string); ok {
				c.Calendar.DayValues = s
			}
		case "icsFile":
			if s, ok := val.(string); ok {
				c.Calendar.ICSFile = s
			}
		case "markdown":
			if b, ok := val.(bool); ok {
				c.Calendar.Markdown = b
			}
		case "logLevel":
			if s, ok := val.(string); ok {
				c.Log.Level = s
			}
		}
	}
	return c
}
