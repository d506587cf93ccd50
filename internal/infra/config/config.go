package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App      AppSettings      `mapstructure:"app"`
	Postgres PostgresSettings `mapstructure:"postgres"`
	Redis    RedisSettings    `mapstructure:"redis"`
	Kafka    KafkaSettings    `mapstructure:"kafka"`
	Guardian GuardianSettings `mapstructure:"guardian"`
	Rotation RotationSettings `mapstructure:"rotation"`
	Policy   PolicySettings   `mapstructure:"policy"`
	Owners   OwnerSettings    `mapstructure:"owners"`
	Argon2   Argon2Settings   `mapstructure:"argon2"`
}

type AppSettings struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type PostgresSettings struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Database          string        `mapstructure:"database"`
	SSLMode           string        `mapstructure:"ssl_mode"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
}

// RedisSettings configures the Redis connection backing the override token
// store.
type RedisSettings struct {
	Host                string `mapstructure:"host"`
	Port                int    `mapstructure:"port"`
	DB                  int    `mapstructure:"db"`
	Password            string `mapstructure:"password"`
	TLSEnabled          bool   `mapstructure:"tls_enabled"`
	OverrideTokenPrefix string `mapstructure:"override_token_prefix"`
}

// KafkaSettings configures the audit event producer.
type KafkaSettings struct {
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
	Async       bool     `mapstructure:"async"`
}

// GuardianSettings configures override token issuance.
type GuardianSettings struct {
	// ProofSecret signs the proof artifact embedded in issued tokens.
	ProofSecret string        `mapstructure:"proof_secret"`
	DefaultTTL  time.Duration `mapstructure:"default_ttl"`
	// PINHash is the argon2id hash of the guardian PIN; empty disables
	// PIN-gated issuance.
	PINHash string `mapstructure:"pin_hash"`
}

// RotationSettings configures queue behavior.
type RotationSettings struct {
	// DueWindow is how long after creation a queued action falls due.
	DueWindow time.Duration `mapstructure:"due_window"`
}

// PolicySettings points at the optional policy table files. A missing or
// unparseable file degrades to compiled-in defaults, never a hard failure.
type PolicySettings struct {
	SiteTablePath     string `mapstructure:"site_table_path"`
	CategoryTablePath string `mapstructure:"category_table_path"`
	SiteProfilesPath  string `mapstructure:"site_profiles_path"`
}

// OwnerSettings configures the static owner directory.
type OwnerSettings struct {
	DirectoryPath string `mapstructure:"directory_path"`
	// Fallback caps applied to profiles that do not specify their own.
	DefaultRecordLimit      int `mapstructure:"default_record_limit"`
	DefaultQueueActionLimit int `mapstructure:"default_queue_action_limit"`
}

// Argon2Settings configures Argon2id hashing of the guardian PIN.
type Argon2Settings struct {
	Memory      uint32 `mapstructure:"memory"`
	Iterations  uint32 `mapstructure:"iterations"`
	Parallelism uint8  `mapstructure:"parallelism"`
	SaltLength  uint32 `mapstructure:"salt_length"`
	KeyLength   uint32 `mapstructure:"key_length"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("HEARTH")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.database",
		"postgres.ssl_mode",
		"postgres.max_conns",
		"postgres.min_conns",
		"postgres.max_conn_lifetime",
		"postgres.max_conn_idle_time",
		"postgres.health_check_period",
		"redis.host",
		"redis.port",
		"redis.db",
		"redis.password",
		"redis.tls_enabled",
		"redis.override_token_prefix",
		"kafka.brokers",
		"kafka.topic_prefix",
		"kafka.async",
		"guardian.proof_secret",
		"guardian.default_ttl",
		"guardian.pin_hash",
		"rotation.due_window",
		"policy.site_table_path",
		"policy.category_table_path",
		"policy.site_profiles_path",
		"owners.directory_path",
		"owners.default_record_limit",
		"owners.default_queue_action_limit",
		"argon2.memory",
		"argon2.iterations",
		"argon2.parallelism",
		"argon2.salt_length",
		"argon2.key_length",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "hearthpass")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "hearthpass")
	v.SetDefault("postgres.password", "hearthpass_password")
	v.SetDefault("postgres.database", "hearthpass")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.max_conn_lifetime", "60m")
	v.SetDefault("postgres.max_conn_idle_time", "15m")
	v.SetDefault("postgres.health_check_period", "30s")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.tls_enabled", false)
	v.SetDefault("redis.override_token_prefix", "hearth:override")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic_prefix", "hearth")
	v.SetDefault("kafka.async", true)

	v.SetDefault("guardian.proof_secret", "")
	v.SetDefault("guardian.default_ttl", "5m")
	v.SetDefault("guardian.pin_hash", "")

	v.SetDefault("rotation.due_window", "72h")

	v.SetDefault("policy.site_table_path", "./config/site_policies.json")
	v.SetDefault("policy.category_table_path", "./config/category_policies.json")
	v.SetDefault("policy.site_profiles_path", "./config/site_profiles.json")

	v.SetDefault("owners.directory_path", "./config/owners.json")
	v.SetDefault("owners.default_record_limit", 40)
	v.SetDefault("owners.default_queue_action_limit", 5)

	v.SetDefault("argon2.memory", 65536)
	v.SetDefault("argon2.iterations", 3)
	v.SetDefault("argon2.parallelism", 4)
	v.SetDefault("argon2.salt_length", 16)
	v.SetDefault("argon2.key_length", 32)
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "HEARTH_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
