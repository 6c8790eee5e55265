package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	t.Setenv("RIDE_TIMER_MAX", "90")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3002", cfg.Server.Port)
	assert.Equal(t, "/api", cfg.Server.BasePath)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, 15, cfg.Ride.TimerDefault)
	assert.Equal(t, 5, cfg.Ride.TimerMin)
	assert.Equal(t, 90, cfg.Ride.TimerMax)
	assert.True(t, cfg.Ride.StrictAvailability)
	assert.Equal(t, 25, cfg.Fleet.Size)
	assert.Equal(t, "AB1", cfg.Fleet.DefaultLocation)
	assert.Equal(t, 500*time.Millisecond, cfg.MQTT.PublishTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			JWT:  JWTConfig{Secret: "s", ExpiresIn: time.Hour},
			Ride: RideConfig{TimerDefault: 15, TimerMin: 5, TimerMax: 120},
		}
	}

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }},
		{"non-positive expiry", func(c *Config) { c.JWT.ExpiresIn = 0 }},
		{"inverted timer range", func(c *Config) { c.Ride.TimerMin = 200 }},
		{"default outside range", func(c *Config) { c.Ride.TimerDefault = 1 }},
		{"negative fleet", func(c *Config) { c.Fleet.Size = -1 }},
		{"slow publish timeout", func(c *Config) { c.MQTT.PublishTimeout = 10 * time.Second }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.modify(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable", db.DSN())

	db.URL = "postgres://u:p@h/d"
	assert.Equal(t, "postgres://u:p@h/d", db.DSN())
}
