package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/conduit-lang/jsondb/internal/orm/schema"
)

// Config represents the jsondb configuration
type Config struct {
	DBFilesLocation string       `mapstructure:"db_files_location"`
	Schema          SchemaConfig `mapstructure:"schema"`
	Log             LogConfig    `mapstructure:"log"`
}

// SchemaConfig selects how declared and persisted schema versions are compared
type SchemaConfig struct {
	Comparator string `mapstructure:"comparator"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load loads the configuration from jsondb.yml or jsondb.yaml in the
// working directory. A missing file is not an error.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("jsondb")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	return decode(v)
}

// LoadFile loads the configuration from an explicit path
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("db_files_location", ".")
	v.SetDefault("schema.comparator", schema.ComparatorExact)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	// JSONDB_SCHEMA_COMPARATOR overrides schema.comparator
	v.SetEnvPrefix("jsondb")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// SchemaComparator returns the comparator named by schema.comparator
func (c *Config) SchemaComparator() (schema.Comparator, error) {
	return schema.ComparatorByName(c.Schema.Comparator)
}

// NewLogger builds the zap logger described by the log section
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}

	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.DBFilesLocation) == "" {
		return fmt.Errorf("db_files_location must not be empty")
	}
	if _, err := schema.ComparatorByName(cfg.Schema.Comparator); err != nil {
		return fmt.Errorf("schema.comparator: %w", err)
	}
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
