// Package config loads drawkit settings from defaults, an optional YAML file and DRAWKIT_* variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/drawkit/internal/core/observability/log"
	"github.com/zeusync/drawkit/internal/core/storage"
)

// DefaultPath is read when Load is called without an explicit path and the file exists.
const DefaultPath = ".drawkit/config.yaml"

const EnvPrefix = "DRAWKIT_"

type Config struct {
	Log     LogConfig      `mapstructure:"log" yaml:"log" envPrefix:"LOG_"`
	Storage storage.Config `mapstructure:"storage" yaml:"storage" envPrefix:"STORAGE_"`
	// Workers bounds how many documents batch commands process at once.
	Workers int `mapstructure:"workers" yaml:"workers" env:"WORKERS"`
}

type LogConfig struct {
	Level    string   `mapstructure:"level" yaml:"level" env:"LEVEL"`
	Encoding string   `mapstructure:"encoding" yaml:"encoding" env:"ENCODING"`
	Outputs  []string `mapstructure:"outputs" yaml:"outputs" env:"OUTPUTS" envSeparator:","`
}

func Defaults() Config {
	return Config{
		Log: LogConfig{
			Level:    "warn",
			Encoding: "console",
			Outputs:  []string{"stderr"},
		},
		Storage: storage.Config{
			Backend: storage.BackendDir,
			Dir:     ".drawkit/documents",
			DSN:     ".drawkit/documents.db",
		},
		Workers: runtime.NumCPU(),
	}
}

// Load layers the defaults, the YAML file at path and the environment, then validates the result.
// An empty path falls back to DefaultPath when that file exists.
func Load(path string) (Config, error) {
	defaults := Defaults()

	v := viper.New()
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.encoding", defaults.Log.Encoding)
	v.SetDefault("log.outputs", defaults.Log.Outputs)
	v.SetDefault("storage.backend", defaults.Storage.Backend)
	v.SetDefault("storage.dir", defaults.Storage.Dir)
	v.SetDefault("storage.dsn", defaults.Storage.DSN)
	v.SetDefault("workers", defaults.Workers)

	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.encoding must be \"json\" or \"console\", got %q", c.Log.Encoding))
	}
	switch c.Storage.Backend {
	case storage.BackendDir:
		if c.Storage.Dir == "" {
			errs = append(errs, errors.New("storage.dir is required for the dir backend"))
		}
	case storage.BackendSQLite:
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage.dsn is required for the sqlite backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend: %w: %q", storage.ErrUnknownBackend, c.Storage.Backend))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	return errors.Join(errs...)
}

// Logger converts the log section into a log.Config.
func (c LogConfig) Logger() (log.Config, error) {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return log.Config{}, err
	}
	return log.Config{Level: level, Encoding: c.Encoding, Outputs: c.Outputs}, nil
}

// WriteDefault writes the default configuration as YAML, creating parent directories.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
