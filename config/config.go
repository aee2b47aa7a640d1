package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Reservation engine tuning.
	ReserveTimeoutSeconds int `mapstructure:"RESERVE_TIMEOUT_SECONDS"` // Whole-operation deadline
	LockRetryMillis       int `mapstructure:"LOCK_RETRY_MILLIS"`       // Backoff between lock attempts
	LockTTLSeconds        int `mapstructure:"LOCK_TTL_SECONDS"`        // Crash-safety expiry on lock documents

	// Kafka event stream.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	// Stripe billing webhook.
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "reserva")
	viper.SetDefault("RESERVE_TIMEOUT_SECONDS", 5)
	viper.SetDefault("LOCK_RETRY_MILLIS", 25)
	viper.SetDefault("LOCK_TTL_SECONDS", 30)
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_TOPIC", "reservation-events")
	viper.SetDefault("STRIPE_WEBHOOK_SECRET", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// ReserveTimeout returns the wall-clock budget for one reserve attempt.
func ReserveTimeout() time.Duration {
	secs := AppConfig.ReserveTimeoutSeconds
	if secs <= 0 {
		secs = 5
	}
	return time.Duration(secs) * time.Second
}

// LockRetryInterval returns the pause between advisory lock attempts.
func LockRetryInterval() time.Duration {
	ms := AppConfig.LockRetryMillis
	if ms <= 0 {
		ms = 25
	}
	return time.Duration(ms) * time.Millisecond
}

// LockTTL returns how long an orphaned lock document survives.
func LockTTL() time.Duration {
	secs := AppConfig.LockTTLSeconds
	if secs <= 0 {
		secs = 30
	}
	return time.Duration(secs) * time.Second
}
