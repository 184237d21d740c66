package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell/config"
)

func Test_Load_Defaults(t *testing.T) {
	// arrange
	v := viper.New()
	config.SetDefaults(v)

	// act
	cfg, err := config.Load(v)

	// assert
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Empty(t, cfg.Database.DSN)
	assert.Empty(t, cfg.Database.ReplicaDSN)
	assert.Equal(t, config.AdapterPGXPool, cfg.Database.Adapter)
	assert.Equal(t, "auction_events", cfg.Database.Table)
	assert.Empty(t, cfg.OTel.Endpoint)
	assert.Equal(t, "auctiond", cfg.OTel.ServiceName)
	assert.Equal(t, core.DefaultRules(), cfg.Rules.ToRules())
}

func Test_Load_FromEnvironment(t *testing.T) {
	// arrange
	t.Setenv("AUCTIOND_DATABASE_DSN", "postgres://u:p@localhost/db")
	t.Setenv("AUCTIOND_DATABASE_REPLICA_DSN", "postgres://u:p@replica/db")
	t.Setenv("AUCTIOND_DATABASE_ADAPTER", "sqlx.db")
	t.Setenv("AUCTIOND_REDIS_DB", "3")
	t.Setenv("AUCTIOND_RULES_COOLDOWN", "30s")
	t.Setenv("AUCTIOND_OTEL_ENDPOINT", "localhost:4317")
	v := viper.New()
	config.SetDefaults(v)

	// act
	cfg, err := config.Load(v)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost/db", cfg.Database.DSN)
	assert.Equal(t, "postgres://u:p@replica/db", cfg.Database.ReplicaDSN)
	assert.Equal(t, config.AdapterSQLXDB, cfg.Database.Adapter)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 30*time.Second, cfg.Rules.Cooldown)
	assert.Equal(t, "localhost:4317", cfg.OTel.Endpoint)
}

func Test_Load_RejectsInvalidValues(t *testing.T) {
	// arrange
	v := viper.New()
	config.SetDefaults(v)
	v.Set(config.KeyDatabaseAdapter, "mysql")

	// act
	_, err := config.Load(v)

	// assert
	assert.ErrorIs(t, err, config.ErrUnknownDatabaseAdapter)

	// arrange
	v.Set(config.KeyDatabaseAdapter, config.AdapterSQLDB)
	v.Set(config.KeyRulesCooldown, "1500ms")

	// act
	_, err = config.Load(v)

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidRules)
}
