// Package config loads storefront settings from defaults, an optional YAML
// file and IVALID_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. IVALID_SOURCE_KIND.
const EnvPrefix = "IVALID"

// Config holds the application configuration
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Logging LoggingConfig `mapstructure:"logging"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
}

// SourceConfig selects where the catalog snapshot comes from
type SourceConfig struct {
	Kind                 string `mapstructure:"kind"`
	Path                 string `mapstructure:"path"`
	ProjectID            string `mapstructure:"project_id"`
	CredentialsFile      string `mapstructure:"credentials_file"`
	ProductsCollection   string `mapstructure:"products_collection"`
	CategoriesCollection string `mapstructure:"categories_collection"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// FetchConfig bounds a single snapshot refresh
type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads configuration into a fresh viper instance. An empty path looks
// for config.yaml in ./config and the working directory; a missing file is
// not an error.
func Load(path string) (*Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load on a caller-supplied viper, so command flags bound to v
// take precedence over file and environment values.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.kind", "memory")
	v.SetDefault("source.path", "data/catalog.json")
	v.SetDefault("source.project_id", "")
	v.SetDefault("source.credentials_file", "")
	v.SetDefault("source.products_collection", "produtos")
	v.SetDefault("source.categories_collection", "categories")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.no_color", false)
	v.SetDefault("fetch.timeout", 10*time.Second)
}

// NewLogger builds a zerolog logger writing to w. Unknown levels fall back to info.
func NewLogger(cfg LoggingConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level)); err == nil {
			level = parsed
		}
	}
	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: cfg.NoColor}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
