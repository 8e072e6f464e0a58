package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"blog-server-go/internal/platform/errors"
)

// Loader assembles configuration from defaults, an optional YAML file and
// the process environment, in that order of precedence.
type Loader struct {
	path      string
	useDotEnv bool
}

// NewLoader creates a loader reading the given config file path. An empty
// path skips the file layer.
func NewLoader(path string) *Loader {
	return &Loader{
		path:      path,
		useDotEnv: true,
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// Load builds and validates the configuration. Missing required secrets
// cause a failure here, at startup, not later mid-request.
func (l *Loader) Load() (*Config, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, using process environment")
		}
	}

	cfg := Default()

	if l.path != "" {
		data, err := os.ReadFile(l.path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(errors.KindConfig, "load",
					"failed to parse config file", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrap(errors.KindConfig, "load",
				"failed to read config file", err)
		}
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TOKEN_SECRET"); v != "" {
		cfg.Auth.TokenSecret = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.Auth.GoogleClientID = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RateLimit.Driver = "redis"
		cfg.RateLimit.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RateLimit.Redis.Password = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.Storage.Driver = "s3"
		cfg.Storage.S3.Bucket = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		cfg.Storage.S3.Region = v
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		cfg.Storage.S3.Endpoint = v
	}
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
		cfg.Storage.S3.AccessKey = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
		cfg.Storage.S3.SecretKey = v
	}
}

func validate(cfg *Config) error {
	if cfg.Auth.TokenSecret == "" {
		return errors.New(errors.KindConfig, "validate",
			"TOKEN_SECRET is required")
	}
	if cfg.RateLimit.Driver == "redis" && cfg.RateLimit.Redis.Addr == "" {
		return errors.New(errors.KindConfig, "validate",
			"redis rate limit driver requires an address")
	}
	if cfg.Storage.Driver == "s3" && cfg.Storage.S3.Bucket == "" {
		return errors.New(errors.KindConfig, "validate",
			"s3 storage driver requires a bucket")
	}
	return nil
}
