package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// placeholderSecrets are values that show up in sample env files and must never sign real tokens
var placeholderSecrets = map[string]bool{
	"fallback-secret":                   true,
	"changeme":                          true,
	"secret":                            true,
	"your-secret-key":                   true,
	"replace-with-a-long-random-string": true,
}

// AppConfig holds every setting the server reads from the environment
type AppConfig struct {
	Env        string `envconfig:"APP_ENV" default:"development"`
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	DB DBConfig

	JWTSecret          string `envconfig:"JWT_SECRET_KEY" required:"true"`
	JWTExpirationHours int64  `envconfig:"JWT_EXPIRATION_HOURS" default:"24"`
	AuthCheckLiveness  bool   `envconfig:"AUTH_CHECK_LIVENESS" default:"true"`
	InitialAdminEmail  string `envconfig:"INITIAL_ADMIN_EMAIL"`

	RedisAddr                string `envconfig:"REDIS_ADDR"`
	RedisPassword            string `envconfig:"REDIS_PASSWORD"`
	LoginRateLimitPerMinute  int    `envconfig:"LOGIN_RATE_LIMIT_PER_MINUTE" default:"10"`
	SignupRateLimitPerMinute int    `envconfig:"SIGNUP_RATE_LIMIT_PER_MINUTE" default:"5"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"5s"`
}

// Load reads AppConfig from the environment and rejects unusable values
func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that envconfig tags cannot express
func (c *AppConfig) Validate() error {
	secret := strings.TrimSpace(c.JWTSecret)
	if secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}
	if placeholderSecrets[strings.ToLower(secret)] {
		return fmt.Errorf("JWT_SECRET_KEY is set to a placeholder value, configure a real secret")
	}
	if c.JWTExpirationHours <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be positive, got %d", c.JWTExpirationHours)
	}
	if c.DB.Host == "" || c.DB.Port == "" || c.DB.User == "" || c.DB.Name == "" {
		return fmt.Errorf("database environment variables not set (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}
	return nil
}

// IsProduction reports whether the server runs with production defaults
func (c *AppConfig) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}
