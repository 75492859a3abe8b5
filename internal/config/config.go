// Package config loads seltran's runtime configuration through viper.
//
// Values come from, in increasing priority: built-in defaults, an optional
// config file, SELTRAN_* environment variables and bound command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/seltran/internal/translator"
)

const EnvPrefix = "SELTRAN"

const (
	DefaultTimeout        = 30 * time.Second
	DefaultRequestTimeout = 15 * time.Second
	DefaultDBPath         = "./data/seltran.db"
	DefaultLogLevel       = "warn"
)

type Config struct {
	OpenAPIURL     string        `mapstructure:"openapi_url"`
	WebURL         string        `mapstructure:"web_url"`
	DictURL        string        `mapstructure:"dict_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	DBPath         string        `mapstructure:"db"`
	LogLevel       string        `mapstructure:"log_level"`
}

// NewViper returns a viper instance with defaults and environment binding
// applied. SELTRAN_APP_KEY maps to app_key and so on. The credential keys
// are not part of Config: settings.Viper re-reads them on every request.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("openapi_url", translator.DefaultOpenAPIURL)
	v.SetDefault("web_url", translator.DefaultWebURL)
	v.SetDefault("dict_url", translator.DefaultDictURL)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("db", DefaultDBPath)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("app_key", "")
	v.SetDefault("app_secret", "")
}

// ReadFile loads path into v. An empty path searches for seltran.{yaml,json,toml}
// in the working directory and silently skips a missing file.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("seltran")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	for name, u := range map[string]string{"openapi_url": c.OpenAPIURL, "web_url": c.WebURL, "dict_url": c.DictURL} {
		if strings.TrimSpace(u) == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}
	return nil
}
