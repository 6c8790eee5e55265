package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	MQTT      MQTTConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Ride      RideConfig
	Fleet     FleetConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
	BasePath    string
	Version     string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type MQTTConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string

	// PublishTimeout bounds the wait for a broker ack on the request path.
	PublishTimeout time.Duration
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// RideConfig bounds the advisory countdown timer, in minutes.
type RideConfig struct {
	TimerDefault int
	TimerMin     int
	TimerMax     int
	// StrictAvailability rejects ride creation on a bike held by another user.
	StrictAvailability bool
}

type FleetConfig struct {
	Size            int
	DefaultLocation string
}

// Ride events are published inline after commit, so the ack wait is capped.
const maxPublishTimeout = 2 * time.Second

func setDefaults() {
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", "3002")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("SERVER_BASE_PATH", "/api")
	viper.SetDefault("APP_VERSION", "1.0.0")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_NAME", "hopon")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("JWT_EXPIRES_IN", "24h")

	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_CACHE_TTL", "1m")

	viper.SetDefault("MQTT_CLIENT_ID", "hopon-backend")
	viper.SetDefault("MQTT_TOPIC_PREFIX", "hopon")
	viper.SetDefault("MQTT_PUBLISH_TIMEOUT", "500ms")

	viper.SetDefault("RATE_LIMIT_GENERAL_RPS", 20)
	viper.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)

	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"})
	viper.SetDefault("CORS_EXPOSED_HEADERS", []string{"X-Request-ID"})
	viper.SetDefault("CORS_ALLOW_CREDENTIALS", true)
	viper.SetDefault("CORS_MAX_AGE", "12h")

	viper.SetDefault("RIDE_TIMER_DEFAULT", 15)
	viper.SetDefault("RIDE_TIMER_MIN", 5)
	viper.SetDefault("RIDE_TIMER_MAX", 120)
	viper.SetDefault("RIDE_STRICT_AVAILABILITY", true)

	viper.SetDefault("FLEET_SIZE", 25)
	viper.SetDefault("FLEET_DEFAULT_LOCATION", "AB1")
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
			BasePath:    viper.GetString("SERVER_BASE_PATH"),
			Version:     viper.GetString("APP_VERSION"),
		},
		Database: DatabaseConfig{
			URL:      viper.GetString("DATABASE_URL"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret:    viper.GetString("JWT_SECRET"),
			ExpiresIn: viper.GetDuration("JWT_EXPIRES_IN"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			CacheTTL: viper.GetDuration("REDIS_CACHE_TTL"),
		},
		MQTT: MQTTConfig{
			Broker:         viper.GetString("MQTT_BROKER"),
			ClientID:       viper.GetString("MQTT_CLIENT_ID"),
			Username:       viper.GetString("MQTT_USERNAME"),
			Password:       viper.GetString("MQTT_PASSWORD"),
			TopicPrefix:    viper.GetString("MQTT_TOPIC_PREFIX"),
			PublishTimeout: viper.GetDuration("MQTT_PUBLISH_TIMEOUT"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   viper.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetDuration("CORS_MAX_AGE"),
		},
		Ride: RideConfig{
			TimerDefault:       viper.GetInt("RIDE_TIMER_DEFAULT"),
			TimerMin:           viper.GetInt("RIDE_TIMER_MIN"),
			TimerMax:           viper.GetInt("RIDE_TIMER_MAX"),
			StrictAvailability: viper.GetBool("RIDE_STRICT_AVAILABILITY"),
		},
		Fleet: FleetConfig{
			Size:            viper.GetInt("FLEET_SIZE"),
			DefaultLocation: viper.GetString("FLEET_DEFAULT_LOCATION"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWT.ExpiresIn <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive, got %s", c.JWT.ExpiresIn)
	}
	if c.Ride.TimerMin <= 0 || c.Ride.TimerMin > c.Ride.TimerMax {
		return fmt.Errorf("invalid ride timer range [%d, %d]", c.Ride.TimerMin, c.Ride.TimerMax)
	}
	if c.Ride.TimerDefault < c.Ride.TimerMin || c.Ride.TimerDefault > c.Ride.TimerMax {
		return fmt.Errorf("RIDE_TIMER_DEFAULT %d outside [%d, %d]", c.Ride.TimerDefault, c.Ride.TimerMin, c.Ride.TimerMax)
	}
	if c.Fleet.Size < 0 {
		return errors.New("FLEET_SIZE must not be negative")
	}
	if c.MQTT.PublishTimeout > maxPublishTimeout {
		return fmt.Errorf("MQTT_PUBLISH_TIMEOUT %s exceeds %s", c.MQTT.PublishTimeout, maxPublishTimeout)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
