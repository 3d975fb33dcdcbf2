package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `validate:"required,oneof=development stage production"`
	Http Http

	Cors CORS `validate:"required"`

	Upstream Upstream `validate:"required"`

	Kafka Kafka

	Cache Cache `validate:"required"`
}

type Http struct {
	Host string `validate:"required,hostname|ip"`
	Port string `validate:"required,gt=0,lte=65535"`
}

type CORS struct {
	AllowedOrigins []string `validate:"required,min=1,dive,url"`
}

// Upstream is the shop API the storefront loads products from and
// submits orders to.
type Upstream struct {
	BaseURL string `validate:"required,url"`
	// CDNURL prefixes product image file names.
	CDNURL  string        `validate:"omitempty,url"`
	Timeout time.Duration `validate:"gt=0"`
}

// Kafka configures the optional event relay. Empty Brokers disables it.
type Kafka struct {
	Brokers []string `validate:"omitempty,min=1,dive,hostname_port"`
	Topic   string   `validate:"required"`

	BatchTimeout time.Duration `validate:"gte=0"`
}

// Cache configures the rendered-view and catalog snapshot caches.
type Cache struct {
	Capacity int           `validate:"gte=1"`
	TTL      time.Duration `validate:"gt=0"`
}

func New() Config {
	return Config{
		Env: env("ENV", "development"),

		Http: Http{
			Host: env("HOST", "localhost"),
			Port: env("PORT", "8080"),
		},

		Cors: CORS{
			AllowedOrigins: strings.Split(env("ALLOWED_CORS_ORIGINS", "http://localhost:3000"), ","),
		},

		Upstream: Upstream{
			BaseURL: env("SHOP_API_URL", "http://localhost:9000/api/weblarek"),
			CDNURL:  env("SHOP_CDN_URL", "http://localhost:9000/content/weblarek"),
			Timeout: envDuration("SHOP_API_TIMEOUT", 10*time.Second),
		},

		Kafka: Kafka{
			Brokers:      splitNonEmpty(env("KAFKA_BROKERS", "")),
			Topic:        env("KAFKA_TOPIC", "storefront-events"),
			BatchTimeout: envDuration("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),
		},

		Cache: Cache{
			Capacity: envInt("CACHE_CAPACITY", 256),
			TTL:      envDuration("CACHE_TTL", 10*time.Minute),
		},
	}
}

func (c Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func env(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	if len(fallback) == 0 {
		return ""
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
