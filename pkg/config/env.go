package config

const EnvPrefix = "CASECRAFT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:casecraft.db?cache=shared"
)

const (
	EnvAppEnv         = "CASECRAFT_APP_ENV"
	EnvPort           = "CASECRAFT_APP_PORT"
	EnvLogLevel       = "CASECRAFT_LOG_LEVEL"
	EnvCORSOrigins    = "CASECRAFT_CORS_ALLOWED_ORIGINS"
	EnvDBDSN          = "CASECRAFT_DB_DSN"
	EnvDBHost         = "CASECRAFT_DB_HOST"
	EnvDBUser         = "CASECRAFT_DB_USER"
	EnvDBName         = "CASECRAFT_DB_NAME"
	EnvRedisURL       = "CASECRAFT_REDIS_URL"
	EnvUseSQLite      = "CASECRAFT_USE_SQLITE"
	EnvSessionTTL     = "CASECRAFT_SESSION_IDLE_TTL"
	EnvSessionMax     = "CASECRAFT_SESSION_MAX"
	EnvMaxUploadMB    = "CASECRAFT_MAX_UPLOAD_MB"
	EnvOrderLimit     = "CASECRAFT_RATE_LIMIT_ORDER_LIMIT"
	EnvOrderWindow    = "CASECRAFT_RATE_LIMIT_ORDER_WINDOW"
	EnvIdempotencyTTL = "CASECRAFT_IDEMPOTENCY_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
