package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Auth     AuthConfig
	Task     TaskConfig
}

type ServerConfig struct {
	Port             string
	Mode             string // debug, release, test
	CORSAllowOrigins []string
	ShutdownTimeout  time.Duration
}

type DatabaseConfig struct {
	Driver       string // sqlite, postgres
	DSN          string
	URL          string // postgres://... takes precedence over DSN for postgres
	LogLevel     string // silent, error, warn, info
	MaxOpenConns int
	MaxIdleConns int
}

type LogConfig struct {
	Level  string
	Format string // json, console
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	Issuer     string
	BcryptCost int

	// LoginCooldown is the minimum gap between login attempts from one client; 0 disables it.
	LoginCooldown time.Duration
}

type TaskConfig struct {
	LowStockCron string // empty disables the low-stock report
}

// Load reads .env (if present), the optional config file and the environment.
// Environment variables win over the file.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:             v.GetString("SERVER_PORT"),
			Mode:             v.GetString("GIN_MODE"),
			CORSAllowOrigins: splitList(v.GetString("CORS_ALLOW_ORIGINS")),
			ShutdownTimeout:  v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:          v.GetString("DB_DSN"),
			URL:          v.GetString("DATABASE_URL"),
			LogLevel:     v.GetString("DB_LOG_LEVEL"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Auth: AuthConfig{
			JWTSecret:     v.GetString("JWT_SECRET"),
			TokenTTL:      v.GetDuration("JWT_TTL"),
			Issuer:        v.GetString("JWT_ISSUER"),
			BcryptCost:    v.GetInt("BCRYPT_COST"),
			LoginCooldown: v.GetDuration("LOGIN_COOLDOWN"),
		},
		Task: TaskConfig{
			LowStockCron: v.GetString("LOW_STOCK_CRON"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "marketplace.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("JWT_SECRET", "marketplace-secret-change-in-production")
	v.SetDefault("JWT_TTL", "2h")
	v.SetDefault("JWT_ISSUER", "marketplace-api")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("LOGIN_COOLDOWN", "0s")

	v.SetDefault("LOW_STOCK_CRON", "")
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or postgres)", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.URL == "" && c.Database.DSN == "" {
		return fmt.Errorf("postgres requires DATABASE_URL or DB_DSN")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
