package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	Scan          ScanConfig
	Webhook       WebhookConfig
	Inbox         InboxConfig
	Notifications NotificationsConfig
	RateLimit     RateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PRAZOS_APP_ENV" required:"true"`
	Port         string `envconfig:"PRAZOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PRAZOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRAZOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PRAZOS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PRAZOS_DB_DSN"`
	Driver string `envconfig:"PRAZOS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PRAZOS_DB_HOST"`
	LegacyPort     int    `envconfig:"PRAZOS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PRAZOS_DB_USER"`
	LegacyPassword string `envconfig:"PRAZOS_DB_PASSWORD"`
	LegacyName     string `envconfig:"PRAZOS_DB_NAME"`
	LegacySSLMode  string `envconfig:"PRAZOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRAZOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRAZOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRAZOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRAZOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PRAZOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PRAZOS_REDIS_ADDR"`
	Password     string        `envconfig:"PRAZOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRAZOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRAZOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRAZOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRAZOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRAZOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRAZOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type ScanConfig struct {
	AccountLookaheadDays int           `envconfig:"PRAZOS_SCAN_ACCOUNT_LOOKAHEAD_DAYS" default:"7"`
	Interval             time.Duration `envconfig:"PRAZOS_SCAN_INTERVAL" default:"1h"`
}

type WebhookConfig struct {
	ProtocolURL string        `envconfig:"PRAZOS_WEBHOOK_PROTOCOL_URL" required:"true"`
	AccountURL  string        `envconfig:"PRAZOS_WEBHOOK_ACCOUNT_URL" required:"true"`
	Timeout     time.Duration `envconfig:"PRAZOS_WEBHOOK_TIMEOUT" default:"30s"`
}

type InboxConfig struct {
	RefreshInterval       time.Duration `envconfig:"PRAZOS_INBOX_REFRESH_INTERVAL" default:"30s"`
	DeadlineCheckInterval time.Duration `envconfig:"PRAZOS_INBOX_DEADLINE_CHECK_INTERVAL" default:"5m"`
}

type NotificationsConfig struct {
	RetentionDays int `envconfig:"PRAZOS_NOTIFICATIONS_RETENTION_DAYS" default:"30"`
}

type RateLimitConfig struct {
	ActivationWindow  time.Duration `envconfig:"PRAZOS_RATE_LIMIT_ACTIVATION_WINDOW" default:"1m"`
	ActivationIPLimit int           `envconfig:"PRAZOS_RATE_LIMIT_ACTIVATION_IP_LIMIT" default:"20"`
	ActivationIDLimit int           `envconfig:"PRAZOS_RATE_LIMIT_ACTIVATION_ID_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PRAZOS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
