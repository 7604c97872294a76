package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/policy"
)

// clearEnv blanks every variable the loaders read so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "APP_PORT", "DB_DRIVER", "DB_USER", "DB_PASS", "DB_HOST", "DB_PORT", "DB_NAME", "DB_SSLMODE",
		"CLOSED_WEEKDAY", "OPEN_TIME", "CLOSE_TIME", "RESTAURANT_TZ",
		"EVENTS_DRIVER", "RABBITMQ_URL", "AMQP_URL", "EVENTS_QUEUE", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"AUDIT_LOG_PATH", "AUDIT_CONSUMER_ENABLED", "LOG_LEVEL", "LOG_FORMAT", "REQUEST_TIMEOUT", "SHUTDOWN_TIMEOUT",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_CAPACITY", "RATE_LIMIT_REFILL_TOKENS", "RATE_LIMIT_REFILL_INTERVAL",
		"RATE_LIMIT_TTL", "RATE_LIMIT_KEY_STRATEGY", "RATE_LIMIT_PREFIX", "RATE_LIMIT_LOCAL_FALLBACK",
		"RATE_LIMIT_DEBUG", "RATE_LIMIT_BURST", "RATE_LIMIT_REFILL_EVERY",
		"CACHE_ENABLED", "CACHE_METHODS", "CACHE_TTL", "CACHE_KEY_STRATEGY", "CACHE_PREFIX", "CACHE_MAX_BODY_BYTES",
		"REDIS_ENABLED", "REDIS_ADDR", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_TLS",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnvMemoryDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "memory")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.DBDriver)
	assert.Equal(t, "none", cfg.EventsDriver)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, policy.Default, cfg.Hours)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestFromEnvRequiresDatabaseSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_USER", "app")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
	assert.Contains(t, err.Error(), "DB_PORT")
	assert.Contains(t, err.Error(), "DB_NAME")
	assert.NotContains(t, err.Error(), "DB_USER")
}

func TestFromEnvPolicyAndEvents(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("CLOSED_WEEKDAY", "Mon")
	t.Setenv("OPEN_TIME", "11:00")
	t.Setenv("CLOSE_TIME", "22:00")
	t.Setenv("RESTAURANT_TZ", "UTC")
	t.Setenv("EVENTS_DRIVER", "Kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, time.Monday, cfg.Hours.ClosedDay)
	assert.Equal(t, policy.Clock(11, 0, 0), cfg.Hours.Open)
	assert.Equal(t, policy.Clock(22, 0, 0), cfg.Hours.Close)
	assert.Equal(t, "kafka", cfg.EventsDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("EVENTS_DRIVER", "sqs")
	t.Setenv("CLOSED_WEEKDAY", "someday")
	t.Setenv("OPEN_TIME", "23:00")
	t.Setenv("RESTAURANT_TZ", "Mars/Olympus")

	_, err := FromEnv()
	require.Error(t, err)
	for _, want := range []string{"DB_DRIVER", "EVENTS_DRIVER", "CLOSED_WEEKDAY", "OPEN_TIME", "RESTAURANT_TZ"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadRateLimitConfigNormalises(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL)
	assert.Equal(t, "ip_route", cfg.KeyStrategy)
	assert.True(t, cfg.LocalFallback)
}

func TestLoadCacheConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "bogus")

	cfg := LoadCacheConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.Equal(t, 1<<20, cfg.MaxBodyBytes)
}

func TestLoadRedisConfigAddr(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_ADDR", "cache:6380")
	assert.Equal(t, "cache:6380", LoadRedisConfig().Addr)

	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	assert.Equal(t, "redis:6379", LoadRedisConfig().Addr)

	t.Setenv("REDIS_ENABLED", "false")
	assert.Nil(t, NewRedisClient(LoadRedisConfig()))
}
