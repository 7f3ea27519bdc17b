package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"parcelhub/internal/adapters/out/kafkanotify"
	"parcelhub/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const DefaultOfferTTL = 72 * time.Hour

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// WSAllowedOrigins empty leaves origin checks to the gateway.
	WSAllowedOrigins []string

	// KafkaBrokers empty means notifications are only logged.
	KafkaBrokers            []string
	KafkaNotificationsTopic string

	// OfferTTL zero disables offer expiry.
	OfferTTL            time.Duration
	OfferExpirySchedule string

	LogLevel  string
	LogFormat string
}

// LoadConfig reads .env (when present), then the environment, then args;
// later sources win.
func LoadConfig(envFile string, args []string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	redisDB, err := envInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	offerTTL, err := envDuration("OFFER_TTL", DefaultOfferTTL)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	flags := pflag.NewFlagSet("parcelhub", pflag.ContinueOnError)
	flags.StringVar(&cfg.HTTPPort, "http-port", env("HTTP_PORT", "8080"), "HTTP listen port")
	flags.StringVar(&cfg.DBHost, "db-host", env("DB_HOST", "localhost"), "Postgres host")
	flags.StringVar(&cfg.DBPort, "db-port", env("DB_PORT", "5432"), "Postgres port")
	flags.StringVar(&cfg.DBUser, "db-user", env("DB_USER", "postgres"), "Postgres user")
	flags.StringVar(&cfg.DBPassword, "db-password", env("DB_PASSWORD", ""), "Postgres password")
	flags.StringVar(&cfg.DBName, "db-name", env("DB_NAME", "parcelhub"), "Postgres database")
	flags.StringVar(&cfg.DBSslMode, "db-sslmode", env("DB_SSLMODE", "disable"), "Postgres sslmode")
	flags.StringVar(&cfg.RedisAddr, "redis-addr", env("REDIS_ADDR", "localhost:6379"), "Redis address for tracking rooms")
	flags.StringVar(&cfg.RedisPassword, "redis-password", env("REDIS_PASSWORD", ""), "Redis password")
	flags.IntVar(&cfg.RedisDB, "redis-db", redisDB, "Redis database")
	flags.StringSliceVar(&cfg.WSAllowedOrigins, "ws-allowed-origins", splitList(env("WS_ALLOWED_ORIGINS", "")),
		"origins allowed to open tracking websockets; empty accepts any")
	flags.StringSliceVar(&cfg.KafkaBrokers, "kafka-brokers", splitList(env("KAFKA_BROKERS", "")),
		"Kafka brokers for notifications; empty logs notifications instead")
	flags.StringVar(&cfg.KafkaNotificationsTopic, "kafka-notifications-topic",
		env("KAFKA_NOTIFICATIONS_TOPIC", kafkanotify.DefaultTopic), "Kafka notifications topic")
	flags.DurationVar(&cfg.OfferTTL, "offer-ttl", offerTTL, "age after which pending offers expire; 0 disables")
	flags.StringVar(&cfg.OfferExpirySchedule, "offer-expiry-schedule",
		env("OFFER_EXPIRY_SCHEDULE", jobs.DefaultOfferExpirySchedule), "cron schedule (with seconds) of offer expiry")
	flags.StringVar(&cfg.LogLevel, "log-level", env("LOG_LEVEL", "info"), "log level")
	flags.StringVar(&cfg.LogFormat, "log-format", env("LOG_FORMAT", "text"), "log format: text or json")

	if err = flags.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.OfferTTL < 0 {
		return Config{}, fmt.Errorf("offer ttl must not be negative, got %s", cfg.OfferTTL)
	}
	return cfg, nil
}

// PostgresDSN renders the connection string for gorm's postgres driver.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := env(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := env(key, "")
	if raw == "" {
		return fallback, nil
	}
	if raw == "0" {
		return 0, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
