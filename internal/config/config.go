package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppPort     = "8080"
	defaultSSLMode     = "disable"
	defaultLockTimeout = 5 * time.Second
	defaultOrderTopic  = "orders.created"
	defaultCORSOrigin  = "http://localhost:3000"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	AppPort    string
	AppEnv     string
	JWTSecret  string

	// ApplyDiscountToTotal subtracts the coupon percentage from total_bill
	// at checkout. Off by default: the coupon is only recorded on the order.
	ApplyDiscountToTotal bool
	DBLockTimeout        time.Duration

	KafkaBrokers    []string
	KafkaOrderTopic string

	InternalSecretKey string
	CORSAllowedOrigin string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:               os.Getenv("DB_HOST"),
		DBUser:               os.Getenv("DB_USER"),
		DBPassword:           os.Getenv("DB_PASSWORD"),
		DBName:               os.Getenv("DB_NAME"),
		DBPort:               os.Getenv("DB_PORT"),
		DBSSLMode:            getenv("DB_SSLMODE", defaultSSLMode),
		AppPort:              getenv("APP_PORT", defaultAppPort),
		AppEnv:               os.Getenv("APP_ENV"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		ApplyDiscountToTotal: getBool("APPLY_DISCOUNT_TO_TOTAL", false),
		DBLockTimeout:        getDuration("DB_LOCK_TIMEOUT", defaultLockTimeout),
		KafkaBrokers:         splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic:      getenv("KAFKA_ORDER_TOPIC", defaultOrderTopic),
		InternalSecretKey:    os.Getenv("INTERNAL_SECRET_KEY"),
		CORSAllowedOrigin:    getenv("CORS_ALLOWED_ORIGIN", defaultCORSOrigin),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %t", key, v, def)
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("[config] invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
