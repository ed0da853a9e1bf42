// Package config loads docql settings from docql.yaml and DOCQL_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/docql/internal/fieldmap"
	"github.com/roach88/docql/internal/mapping"
)

// EnvPrefix prefixes every environment override, e.g. DOCQL_CONVENTION.
const EnvPrefix = "DOCQL"

// FileName is the config file searched for in the working directory.
const FileName = "docql"

// Config holds the resolved settings.
type Config struct {
	// Convention is the default member naming convention.
	Convention string `mapstructure:"convention"`

	// Mappings is a directory of CUE entity mapping files. Optional.
	Mappings string `mapstructure:"mappings"`

	// Database is the statement log path used by --record and history.
	Database string `mapstructure:"database"`

	// CacheSize bounds the field-name memo cache.
	CacheSize int `mapstructure:"cache_size"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
}

func newViperWithDefaults() *viper.Viper {
	v := viper.New()
	v.SetDefault("convention", string(fieldmap.LowerFirst))
	v.SetDefault("mappings", "")
	v.SetDefault("database", "docql.db")
	v.SetDefault("cache_size", fieldmap.DefaultCacheSize)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path. With an empty path, docql.yaml is
// searched for in the working directory and its absence is not an error.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	v := newViperWithDefaults()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Convention: string(fieldmap.LowerFirst),
		Database:   "docql.db",
		CacheSize:  fieldmap.DefaultCacheSize,
		LogLevel:   "info",
	}
}

// Validate checks every field.
func (c *Config) Validate() error {
	if _, err := fieldmap.ParseConvention(c.Convention); err != nil {
		return fmt.Errorf("invalid config: convention: %w", err)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("invalid config: cache_size must be positive, got %d", c.CacheSize)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("invalid config: log_level: %w", err)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// Mapper builds the field mapper the settings describe, loading CUE
// mappings when a directory is configured.
func (c *Config) Mapper() (*fieldmap.Mapper, error) {
	conv, err := fieldmap.ParseConvention(c.Convention)
	if err != nil {
		return nil, err
	}
	opts := []fieldmap.MapperOption{
		fieldmap.WithConvention(conv),
		fieldmap.WithCacheSize(c.CacheSize),
	}
	if c.Mappings == "" {
		return fieldmap.New(opts...)
	}
	return mapping.LoadMapper(c.Mappings, opts...)
}
