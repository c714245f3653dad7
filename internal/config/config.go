package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/at-ishikawa/dictcc/internal/dictionary"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Cache  CacheConfig  `mapstructure:"cache"`
	Remote RemoteConfig `mapstructure:"remote"`
}

type CacheConfig struct {
	File string `mapstructure:"file" validate:"required"`
}

type RemoteConfig struct {
	SearchURL     string        `mapstructure:"search_url" validate:"required,searchurl"`
	QueryParam    string        `mapstructure:"query_param" validate:"required"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RetryAttempts uint          `mapstructure:"retry_attempts" validate:"lte=10"`
	UserAgent     string        `mapstructure:"user_agent"`
}

const (
	DefaultSearchURL  = "https://www.dict.cc/"
	DefaultQueryParam = "s"
	DefaultTimeout    = dictionary.DefaultTimeout
	DefaultUserAgent  = "dictcc-lookup"
)

// DefaultCacheFile returns the per-user cache path, ~/.dictcc/cache.tsv.
func DefaultCacheFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".dictcc", "cache.tsv")
	}
	return filepath.Join(home, ".dictcc", "cache.tsv")
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/dictcc")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("cache.file", DefaultCacheFile())
	v.SetDefault("remote.search_url", DefaultSearchURL)
	v.SetDefault("remote.query_param", DefaultQueryParam)
	v.SetDefault("remote.timeout", DefaultTimeout)
	v.SetDefault("remote.retry_attempts", 0)
	v.SetDefault("remote.user_agent", DefaultUserAgent)

	if err := v.BindEnv("cache.file", "DICTCC_CACHE_FILE"); err != nil {
		return nil, fmt.Errorf("failed to bind DICTCC_CACHE_FILE environment variable: %w", err)
	}
	if err := v.BindEnv("remote.search_url", "DICTCC_SEARCH_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind DICTCC_SEARCH_URL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}
	cfg.Cache.File = expandHome(cfg.Cache.File)

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, fmt.Errorf("validator.Struct > %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

// Load reads configFile, or config.yml from the working directory or
// $HOME/.config/dictcc when configFile is empty.
func Load(configFile string) (*Config, error) {
	loader, err := NewConfigLoader(configFile)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
