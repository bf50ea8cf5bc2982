package config

const (
	// EnvPrefix scopes every environment variable the service reads.
	EnvPrefix = "PRAZOS"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "PRAZOS_APP_ENV"
	EnvPort     = "PRAZOS_APP_PORT"
	EnvDBDSN    = "PRAZOS_DB_DSN"
	EnvDBHost   = "PRAZOS_DB_HOST"
	EnvDBUser   = "PRAZOS_DB_USER"
	EnvDBName   = "PRAZOS_DB_NAME"
	EnvRedisURL = "PRAZOS_REDIS_URL"

	EnvWebhookProtocolURL = "PRAZOS_WEBHOOK_PROTOCOL_URL"
	EnvWebhookAccountURL  = "PRAZOS_WEBHOOK_ACCOUNT_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
