package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("DB_SSLMODE", "require")
		t.Setenv("APP_PORT", "9090")
		t.Setenv("APP_ENV", "test")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("APPLY_DISCOUNT_TO_TOTAL", "true")
		t.Setenv("DB_LOCK_TIMEOUT", "2s")
		t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
		t.Setenv("KAFKA_ORDER_TOPIC", "orders")
		t.Setenv("INTERNAL_SECRET_KEY", "internal")
		t.Setenv("CORS_ALLOWED_ORIGIN", "https://shop.example.com")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "require", cfg.DBSSLMode)
		assert.Equal(t, "9090", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "secret", cfg.JWTSecret)
		assert.True(t, cfg.ApplyDiscountToTotal)
		assert.Equal(t, 2*time.Second, cfg.DBLockTimeout)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
		assert.Equal(t, "orders", cfg.KafkaOrderTopic)
		assert.Equal(t, "internal", cfg.InternalSecretKey)
		assert.Equal(t, "https://shop.example.com", cfg.CORSAllowedOrigin)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_SSLMODE", "")
		t.Setenv("APP_PORT", "")
		t.Setenv("APPLY_DISCOUNT_TO_TOTAL", "")
		t.Setenv("DB_LOCK_TIMEOUT", "")
		t.Setenv("KAFKA_BROKERS", "")
		t.Setenv("KAFKA_ORDER_TOPIC", "")
		t.Setenv("CORS_ALLOWED_ORIGIN", "")

		cfg := LoadConfig()

		assert.Equal(t, "disable", cfg.DBSSLMode)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.False(t, cfg.ApplyDiscountToTotal)
		assert.Equal(t, 5*time.Second, cfg.DBLockTimeout)
		assert.Nil(t, cfg.KafkaBrokers)
		assert.Equal(t, "orders.created", cfg.KafkaOrderTopic)
		assert.Equal(t, "http://localhost:3000", cfg.CORSAllowedOrigin)
	})

	t.Run("Invalid values fall back", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("APPLY_DISCOUNT_TO_TOTAL", "sometimes")
		t.Setenv("DB_LOCK_TIMEOUT", "soon")

		cfg := LoadConfig()

		assert.False(t, cfg.ApplyDiscountToTotal)
		assert.Equal(t, 5*time.Second, cfg.DBLockTimeout)
	})
}
