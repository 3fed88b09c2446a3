package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DB_DSN" required:"true"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MIN" default:"120"`
	RateLimitBurst     int `envconfig:"RATE_LIMIT_BURST" default:"30"`

	// The dual-service follow-up rule and where it routes.
	FollowUpPrimary     string `envconfig:"FOLLOW_UP_PRIMARY" default:"sv01"`
	FollowUpSecondary   string `envconfig:"FOLLOW_UP_SECONDARY" default:"sv06"`
	FollowUpCounterHint string `envconfig:"FOLLOW_UP_COUNTER_HINT" default:"5"`

	// Heartbeats older than this render a button offline in listings.
	DeviceOnlineWindow time.Duration `envconfig:"DEVICE_ONLINE_WINDOW" default:"5m"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
