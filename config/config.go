package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	LogFile           string `mapstructure:"LOG_FILE"` // optional rotating file sink
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB hotel cache.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Supplier (ETG B2B v3) API.
	ETGBaseURL        string        `mapstructure:"ETG_BASE_URL"`
	ETGKeyID          string        `mapstructure:"ETG_KEY_ID"`
	ETGAPIKey         string        `mapstructure:"ETG_API_KEY"`
	ETGTimeout        time.Duration `mapstructure:"ETG_TIMEOUT"`
	ETGRequestsPerSec float64       `mapstructure:"ETG_REQUESTS_PER_SEC"`

	// Booking workflow.
	BookingPollInterval    time.Duration `mapstructure:"BOOKING_POLL_INTERVAL"`
	BookingMaxPollAttempts int           `mapstructure:"BOOKING_MAX_POLL_ATTEMPTS"`
	BookingSessionTTL      time.Duration `mapstructure:"BOOKING_SESSION_TTL"`
	WorkerConcurrency      int           `mapstructure:"WORKER_CONCURRENCY"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real environment variables still win.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// setDefaults registers a default for every key so AutomaticEnv can see it during Unmarshal.
func setDefaults() {
	viper.SetDefault("APP_PORT", "5000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FILE", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)

	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "staybridge")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)

	viper.SetDefault("ETG_BASE_URL", "https://api.worldota.net/api/b2b/v3")
	viper.SetDefault("ETG_KEY_ID", "")
	viper.SetDefault("ETG_API_KEY", "")
	viper.SetDefault("ETG_TIMEOUT", "30s")
	viper.SetDefault("ETG_REQUESTS_PER_SEC", 5.0)

	viper.SetDefault("BOOKING_POLL_INTERVAL", "2s")
	viper.SetDefault("BOOKING_MAX_POLL_ATTEMPTS", 20)
	viper.SetDefault("BOOKING_SESSION_TTL", "24h")
	viper.SetDefault("WORKER_CONCURRENCY", 10)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
