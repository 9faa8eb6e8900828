package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// DisplayTimezone is the IANA zone used to render notification bodies
	// and as the default public schedule zone.
	DisplayTimezone string `env:"DISPLAY_TIMEZONE, default=America/Denver"`
	FanoutWorkers   int    `env:"FANOUT_WORKERS,   default=4"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Email   EmailConfig
	Geocode GeocodeConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=booking"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type EmailConfig struct {
	APIKey string `env:"EMAIL_API_KEY"`
	From   string `env:"EMAIL_FROM, default=Food Truck Booking <no-reply@streetfare.dev>"`
}

type GeocodeConfig struct {
	UserAgent string `env:"GEOCODE_USER_AGENT, default=streetfare-booking/1.0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
