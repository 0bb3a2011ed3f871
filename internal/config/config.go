package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Env            string        `mapstructure:"ENV"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	StoreDriver    string        `mapstructure:"STORE_DRIVER"`
	MongoURI       string        `mapstructure:"MONGO_URI"`
	MongoDatabase  string        `mapstructure:"MONGO_DATABASE"`
	MongoTimeout   time.Duration `mapstructure:"MONGO_TIMEOUT"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	JWTTTL         time.Duration `mapstructure:"JWT_TTL"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
	BcryptCost     int           `mapstructure:"BCRYPT_COST"`
	TextbeltAPIKey string        `mapstructure:"TEXTBELT_API_KEY"`
	TextbeltURL    string        `mapstructure:"TEXTBELT_URL"`

	// Admin account created by the seed command.
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "STORE_DRIVER", "MONGO_URI", "MONGO_DATABASE",
	"MONGO_TIMEOUT", "JWT_SECRET", "JWT_TTL", "CORS_ORIGINS", "BCRYPT_COST",
	"TEXTBELT_API_KEY", "TEXTBELT_URL", "ADMIN_EMAIL", "ADMIN_PASSWORD",
}

// Load reads the process environment, after loading a .env file into it when
// one is present. Call Validate before using the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_DATABASE", "healthcare")
	v.SetDefault("MONGO_TIMEOUT", "10s")
	v.SetDefault("JWT_TTL", "168h")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("TEXTBELT_URL", "https://textbelt.com/text")
	v.SetDefault("ADMIN_EMAIL", "admin@healthcare.com")
	v.SetDefault("ADMIN_PASSWORD", "password123")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))
	cfg.StoreDriver = strings.ToLower(cfg.StoreDriver)

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_DRIVER is %q", DriverMongo)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverMemory, c.StoreDriver)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
