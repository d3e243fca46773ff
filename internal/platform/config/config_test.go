package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, []string{"nik", "kk", "passport", "npwp", "bpjs", "sim"}, cfg.CardIdentityTypes)
	assert.Equal(t, 24*time.Hour, cfg.FamilyIndexTTL)
	assert.Equal(t, time.Hour, cfg.ReferenceCacheTTL)
	assert.Equal(t, "persona.people", cfg.Kafka.Topic)
	assert.Equal(t, time.Second, cfg.HookTimeout)
	assert.Equal(t, 30*time.Second, cfg.Kafka.DeliveryTimeout)
	assert.Equal(t, 5, cfg.Redis.BreakerFailures)
}

func TestFromEnvNormalizesCardTypes(t *testing.T) {
	t.Setenv("CARD_IDENTITY_TYPES", " NIK,passport,nik ")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"nik", "passport"}, cfg.CardIdentityTypes)
}

func TestFromEnvRejectsEmptyAllowList(t *testing.T) {
	t.Setenv("CARD_IDENTITY_TYPES", " , ")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestFromEnvNestedKeys(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}

func TestFromEnvRejectsBadDuration(t *testing.T) {
	t.Setenv("TX_TIMEOUT", "soon")

	_, err := FromEnv()
	require.Error(t, err)
}
