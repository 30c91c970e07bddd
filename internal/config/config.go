// Package config loads the bagtensor command configuration.
//
// Sources are layered with koanf, later layers winning:
//  1. Defaults
//  2. Optional YAML file
//  3. BAGTENSOR_* environment variables
//  4. Explicit overrides, typically command-line flags
//
// The result is validated with go-playground/validator.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "BAGTENSOR_"

// Config is the effective configuration of one run.
type Config struct {
	Shards       int     `koanf:"shards" yaml:"shards" validate:"min=1"`
	Input        string  `koanf:"input" yaml:"input" validate:"required"`
	Output       string  `koanf:"output" yaml:"output" validate:"required"`
	TestFraction float64 `koanf:"test_fraction" yaml:"test_fraction" validate:"gte=0,lt=1"`
	// TestCount, when set, overrides TestFraction.
	TestCount *int    `koanf:"test_count" yaml:"test_count,omitempty" validate:"omitempty,gte=0"`
	Threshold int64   `koanf:"threshold" yaml:"threshold"`
	Seed      *uint64 `koanf:"seed" yaml:"seed,omitempty"`
	Threads   int     `koanf:"threads" yaml:"threads" validate:"min=1"`
	Verify    bool    `koanf:"verify" yaml:"verify"`

	Logging  LoggingConfig  `koanf:"logging" yaml:"logging"`
	Resource ResourceConfig `koanf:"resource" yaml:"resource"`
	S3       S3Config       `koanf:"s3" yaml:"s3"`
	MinIO    MinIOConfig    `koanf:"minio" yaml:"minio"`
	Metrics  MetricsConfig  `koanf:"metrics" yaml:"metrics"`
}

// LoggingConfig selects the log handler.
type LoggingConfig struct {
	Level  string `koanf:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" yaml:"format" validate:"oneof=text json"`
}

// ResourceConfig bounds memory and output bandwidth. Zero disables a limit.
type ResourceConfig struct {
	MemoryLimitBytes   int64 `koanf:"memory_limit_bytes" yaml:"memory_limit_bytes" validate:"gte=0"`
	IOLimitBytesPerSec int64 `koanf:"io_limit_bytes_per_sec" yaml:"io_limit_bytes_per_sec" validate:"gte=0"`
}

// S3Config configures s3:// outputs. Credentials come from the AWS default chain.
type S3Config struct {
	Region    string `koanf:"region" yaml:"region,omitempty"`
	Endpoint  string `koanf:"endpoint" yaml:"endpoint,omitempty" validate:"omitempty,url"`
	PathStyle bool   `koanf:"path_style" yaml:"path_style"`
}

// MinIOConfig configures minio:// outputs.
type MinIOConfig struct {
	Endpoint  string `koanf:"endpoint" yaml:"endpoint,omitempty" validate:"omitempty,hostname_port"`
	AccessKey string `koanf:"access_key" yaml:"access_key,omitempty"`
	SecretKey string `koanf:"secret_key" yaml:"-"`
	Region    string `koanf:"region" yaml:"region,omitempty"`
	Secure    bool   `koanf:"secure" yaml:"secure"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	// Textfile is written in Prometheus text format after the run.
	Textfile string `koanf:"textfile" yaml:"textfile,omitempty"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Shards:       1,
		TestFraction: 0.2,
		Threshold:    10,
		Threads:      4,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		MinIO: MinIOConfig{
			Secure: true,
		},
	}
}

// LoadOptions selects the optional layers of Load.
type LoadOptions struct {
	// File is an optional YAML file.
	File string
	// Environ replaces the process environment; entries are KEY=VALUE.
	Environ []string
	// Overrides are koanf paths such as "shards" or "logging.level".
	Overrides map[string]any
}

// Load builds and validates the layered configuration.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if opts.File != "" {
		if err := k.Load(file.Provider(opts.File), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", opts.File, err)
		}
	}

	if opts.Environ != nil {
		for _, kv := range opts.Environ {
			key, value, ok := strings.Cut(kv, "=")
			if !ok || !strings.HasPrefix(key, EnvPrefix) {
				continue
			}
			if err := k.Set(envKey(key), value); err != nil {
				return nil, fmt.Errorf("set %s: %w", key, err)
			}
		}
	} else if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	for path, value := range opts.Overrides {
		if err := k.Set(path, value); err != nil {
			return nil, fmt.Errorf("set %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// sections are the nested keys; their env names use "_" as separator.
var sections = []string{"logging", "resource", "s3", "minio", "metrics"}

// envKey maps BAGTENSOR_LOGGING_LEVEL to logging.level and
// BAGTENSOR_TEST_FRACTION to test_fraction.
func envKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	for _, s := range sections {
		if rest, ok := strings.CutPrefix(key, s+"_"); ok {
			return s + "." + rest
		}
	}
	return key
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			msgs := make([]string, 0, len(errs))
			for _, fe := range errs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.ActualTag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Save writes c as YAML. The MinIO secret key is never written.
func Save(w io.Writer, c *Config) error {
	enc := yamlv3.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	return enc.Close()
}
