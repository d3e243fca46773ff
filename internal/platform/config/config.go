package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	pstrings "persona/pkg/platform/strings"
)

// Config captures process level configuration. Empty DATABASE_URL / REDIS_URL /
// KAFKA_BROKERS select the in-memory store, in-memory read cache and no change
// events respectively.
type Config struct {
	Addr        string `envconfig:"PERSONA_ADDR" default:":8080"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"text"`

	Redis RedisConfig
	Kafka KafkaConfig

	// CardIdentityTypes is the allow-list of identity-card type tags persisted
	// for a person.
	CardIdentityTypes []string      `envconfig:"CARD_IDENTITY_TYPES" default:"nik,kk,passport,npwp,bpjs,sim"`
	ReferenceCacheTTL time.Duration `envconfig:"REFERENCE_CACHE_TTL" default:"1h"`
	FamilyIndexTTL    time.Duration `envconfig:"FAMILY_INDEX_TTL" default:"24h"`
	TxTimeout         time.Duration `envconfig:"TX_TIMEOUT" default:"5s"`
	HookTimeout       time.Duration `envconfig:"HOOK_TIMEOUT" default:"1s"`
}

// RedisConfig configures the read-cache Redis client (REDIS_* variables).
type RedisConfig struct {
	URL          string        `envconfig:"URL"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"2s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"500ms"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"500ms"`

	BreakerFailures  int `envconfig:"BREAKER_FAILURES" default:"5"`
	BreakerSuccesses int `envconfig:"BREAKER_SUCCESSES" default:"3"`
}

// KafkaConfig configures the person change-event producer (KAFKA_* variables).
type KafkaConfig struct {
	Brokers []string `envconfig:"BROKERS"`
	Topic   string   `envconfig:"TOPIC" default:"persona.people"`

	DeliveryTimeout time.Duration `envconfig:"DELIVERY_TIMEOUT" default:"30s"`
}

// FromEnv loads Config from the environment so main stays lean.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.CardIdentityTypes = pstrings.DedupeAndTrimLower(cfg.CardIdentityTypes)
	if len(cfg.CardIdentityTypes) == 0 {
		return Config{}, fmt.Errorf("load config: CARD_IDENTITY_TYPES must name at least one type")
	}
	return cfg, nil
}
