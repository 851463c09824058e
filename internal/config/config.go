// File: internal/config/config.go
package config

import "time"

// Config is the full typed configuration of the identity service.
type Config struct {
	Env          string             `mapstructure:"env"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Lockout      LockoutConfig      `mapstructure:"lockout"`
	TwoFactor    TwoFactorConfig    `mapstructure:"two_factor"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Seed         SeedConfig         `mapstructure:"seed"`
}

// IsProduction reports whether the service runs in the production
// environment. Seeding refuses to run when it does.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
	PoolSize int    `mapstructure:"pool_size"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret          string        `mapstructure:"secret"`
	Issuer          string        `mapstructure:"issuer"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

type LockoutConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Window      time.Duration `mapstructure:"window"`
	BlockFor    time.Duration `mapstructure:"block_for"`
}

type TwoFactorConfig struct {
	Issuer          string        `mapstructure:"issuer"`
	BackupCodeCount int           `mapstructure:"backup_code_count"`
	CodeTTL         time.Duration `mapstructure:"code_ttl"`
}

type NotificationConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SeedConfig controls test-user seeding at startup. Disabled unless
// explicitly turned on, and never honored in production.
type SeedConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	UserEmail    string `mapstructure:"user_email"`
	UserPassword string `mapstructure:"user_password"`
}
