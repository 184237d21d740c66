package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
)

const (
	// EnvPrefix prefixes all environment variables, e.g. AUCTIOND_DATABASE_DSN.
	EnvPrefix = "auctiond"

	AdapterPGXPool = "pgx.pool"
	AdapterSQLDB   = "sql.db"
	AdapterSQLXDB  = "sqlx.db"

	KeyListenAddr              = "listen_addr"
	KeyDatabaseDSN             = "database.dsn"
	KeyDatabaseReplicaDSN      = "database.replica_dsn"
	KeyDatabaseAdapter         = "database.adapter"
	KeyDatabaseTable           = "database.table"
	KeyRedisAddr               = "redis.addr"
	KeyRedisPassword           = "redis.password"
	KeyRedisDB                 = "redis.db"
	KeyNATSURL                 = "nats.url"
	KeyOTelEndpoint            = "otel.endpoint"
	KeyOTelServiceName         = "otel.service_name"
	KeyLogLevel                = "log.level"
	KeyRulesCooldown           = "rules.cooldown"
	KeyRulesExtensionWindow    = "rules.extension_window"
	KeyRulesExtensionIncrement = "rules.extension_increment"
	defaultListenAddr          = ":8080"
	defaultDatabaseTable       = "auction_events"
	defaultLogLevel            = "info"
	defaultServiceName         = "auctiond"
)

// ErrUnknownDatabaseAdapter is returned for a database.adapter other than pgx.pool, sql.db or sqlx.db.
var ErrUnknownDatabaseAdapter = errors.New("unknown database adapter")

// Config is the process configuration of auctiond.
type Config struct {
	ListenAddr string         `mapstructure:"listen_addr"`
	Database   DatabaseConfig `mapstructure:"database"`
	Redis      RedisConfig    `mapstructure:"redis"`
	NATS       NATSConfig     `mapstructure:"nats"`
	OTel       OTelConfig     `mapstructure:"otel"`
	Log        LogConfig      `mapstructure:"log"`
	Rules      RulesConfig    `mapstructure:"rules"`
}

// DatabaseConfig selects the PostgreSQL event store. An empty DSN selects the in-memory engine.
// With a ReplicaDSN, eventually consistent reads go to the replica.
type DatabaseConfig struct {
	DSN        string `mapstructure:"dsn"`
	ReplicaDSN string `mapstructure:"replica_dsn"`
	Adapter    string `mapstructure:"adapter"`
	Table      string `mapstructure:"table"`
}

// RedisConfig selects the Redis bank. An empty Addr selects the in-memory bank.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NATSConfig enables publishing settlement records. An empty URL disables it.
type NATSConfig struct {
	URL string `mapstructure:"url"`
}

// OTelConfig enables exporting traces and metrics via OTLP gRPC. An empty Endpoint disables it.
type OTelConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

// LogConfig configures the slog level: debug, info, warn or error.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// RulesConfig holds the rules new auctions start with.
type RulesConfig struct {
	Cooldown           time.Duration `mapstructure:"cooldown"`
	ExtensionWindow    time.Duration `mapstructure:"extension_window"`
	ExtensionIncrement time.Duration `mapstructure:"extension_increment"`
}

// ToRules converts the configuration to core.Rules.
func (r RulesConfig) ToRules() core.Rules {
	return core.Rules{
		CooldownPeriod:     r.Cooldown,
		ExtensionWindow:    r.ExtensionWindow,
		ExtensionIncrement: r.ExtensionIncrement,
	}
}

// SetDefaults registers defaults and binds the environment (AUCTIOND_DATABASE_DSN etc.).
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyListenAddr, defaultListenAddr)
	v.SetDefault(KeyDatabaseDSN, "")
	v.SetDefault(KeyDatabaseReplicaDSN, "")
	v.SetDefault(KeyDatabaseAdapter, AdapterPGXPool)
	v.SetDefault(KeyDatabaseTable, defaultDatabaseTable)
	v.SetDefault(KeyRedisAddr, "")
	v.SetDefault(KeyRedisPassword, "")
	v.SetDefault(KeyRedisDB, 0)
	v.SetDefault(KeyNATSURL, "")
	v.SetDefault(KeyOTelEndpoint, "")
	v.SetDefault(KeyOTelServiceName, defaultServiceName)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyRulesCooldown, core.DefaultCooldownPeriod)
	v.SetDefault(KeyRulesExtensionWindow, core.DefaultExtensionWindow)
	v.SetDefault(KeyRulesExtensionIncrement, core.DefaultExtensionIncrement)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	switch cfg.Database.Adapter {
	case AdapterPGXPool, AdapterSQLDB, AdapterSQLXDB:
	default:
		return Config{}, errors.Join(ErrUnknownDatabaseAdapter, errors.New(cfg.Database.Adapter))
	}

	if err := cfg.Rules.ToRules().Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
