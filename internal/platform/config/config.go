package config

import (
	"time"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Storage   StorageConfig   `yaml:"storage"`
	Web       WebConfig       `yaml:"web"`
}

type ServerConfig struct {
	IP             string   `yaml:"ip"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type AuthConfig struct {
	// TokenSecret is environment-only; it never lives in a config file.
	TokenSecret    string        `yaml:"-"`
	AccessTTL      time.Duration `yaml:"access_ttl"`
	RefreshTTL     time.Duration `yaml:"refresh_ttl"`
	BcryptCost     int           `yaml:"bcrypt_cost"`
	GoogleClientID string        `yaml:"google_client_id"`
	CookieName     string        `yaml:"cookie_name"`
	CookieSecure   bool          `yaml:"cookie_secure"`
	CookieDomain   string        `yaml:"cookie_domain"`
}

type RateLimitConfig struct {
	Driver  string       `yaml:"driver"`
	Redis   RedisConfig  `yaml:"redis,omitempty"`
	General WindowConfig `yaml:"general"`
	Auth    WindowConfig `yaml:"auth"`
}

type WindowConfig struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

type StorageConfig struct {
	Driver   string   `yaml:"driver"`
	LocalDir string   `yaml:"local_dir"`
	BaseURL  string   `yaml:"base_url"`
	S3       S3Config `yaml:"s3,omitempty"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
	PublicURL string `yaml:"public_url,omitempty"`
}

type WebConfig struct {
	Enabled   bool   `yaml:"enabled"`
	StaticDir string `yaml:"static_dir"`
}
