package config

import "time"

// Default returns the baseline configuration; file and environment
// values are layered on top of it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8080,
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://localhost:4173",
			},
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "logs",
			File:  "server.log",
		},
		Database: DatabaseConfig{
			DSN: "blog.db",
		},
		Auth: AuthConfig{
			AccessTTL:    15 * time.Minute,
			RefreshTTL:   7 * 24 * time.Hour,
			BcryptCost:   10,
			CookieName:   "jwt",
			CookieSecure: true,
		},
		RateLimit: RateLimitConfig{
			Driver: "memory",
			General: WindowConfig{
				Limit:  500,
				Window: 15 * time.Minute,
			},
			Auth: WindowConfig{
				Limit:  10,
				Window: 15 * time.Minute,
			},
		},
		Storage: StorageConfig{
			Driver:   "local",
			LocalDir: "uploads",
			BaseURL:  "/uploads",
		},
		Web: WebConfig{
			Enabled:   true,
			StaticDir: "./web",
		},
	}
}
