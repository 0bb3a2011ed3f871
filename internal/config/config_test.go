package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "healthcare", cfg.MongoDatabase)
	assert.Equal(t, 10*time.Second, cfg.MongoTimeout)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "admin@healthcare.com", cfg.AdminEmail)
	assert.Equal(t, "password123", cfg.AdminPassword)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("ENV", "production")
	t.Setenv("ADMIN_EMAIL", "root@clinic.test")
	t.Setenv("ADMIN_PASSWORD", "s3cret-pass")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "root@clinic.test", cfg.AdminEmail)
	assert.Equal(t, "s3cret-pass", cfg.AdminPassword)
}

func TestValidate(t *testing.T) {
	valid := Config{
		JWTSecret:   "s",
		StoreDriver: DriverMongo,
		MongoURI:    "mongodb://x",
		BcryptCost:  10,
		JWTTTL:      time.Hour,
	}
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *Config){
		"missing secret":   func(c *Config) { c.JWTSecret = "" },
		"missing mongo":    func(c *Config) { c.MongoURI = "" },
		"unknown driver":   func(c *Config) { c.StoreDriver = "sqlite" },
		"bcrypt too cheap": func(c *Config) { c.BcryptCost = 1 },
		"zero ttl":         func(c *Config) { c.JWTTTL = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	mem := valid
	mem.StoreDriver = DriverMemory
	mem.MongoURI = ""
	assert.NoError(t, mem.Validate())
}
