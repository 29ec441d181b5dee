package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("DELIVERY_VERIFY_ORDER", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorageBackendFile, cfg.Storage.Backend)
	assert.False(t, cfg.Business.VerifyDeliveryOrder)
	assert.Equal(t, 86400, cfg.Business.IdempotencyTTLSeconds)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORAGE_BACKEND", "Postgres")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("DELIVERY_VERIFY_ORDER", "1")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, StorageBackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Business.VerifyDeliveryOrder)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("KAFKA_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestValidateRejectsDefaultTokenInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("API_TOKEN", "")

	assert.Error(t, Load().Validate())

	t.Setenv("API_TOKEN", DefaultAPIToken)
	assert.Error(t, Load().Validate())

	t.Setenv("API_TOKEN", "s3cr3t")
	assert.NoError(t, Load().Validate())

	t.Setenv("ENV", "development")
	t.Setenv("API_TOKEN", "")
	assert.NoError(t, Load().Validate())
}
