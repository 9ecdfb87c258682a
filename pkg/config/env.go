package config

const (
	EnvPrefix = "PRICING"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvAppEnv    = "PRICING_APP_ENV"
	EnvPort      = "PRICING_APP_PORT"
	EnvLogLvl    = "PRICING_LOG_LEVEL"
	EnvDBDSN     = "PRICING_DB_DSN"
	EnvDBHost    = "PRICING_DB_HOST"
	EnvDBUser    = "PRICING_DB_USER"
	EnvDBName    = "PRICING_DB_NAME"
	EnvUseSQLite = "PRICING_USE_SQLITE"

	EnvRedisURL = "PRICING_REDIS_URL"

	EnvCacheEnabled     = "PRICING_CACHE_ENABLED"
	EnvCacheTTL         = "PRICING_CACHE_TTL"
	EnvCacheDateBucket  = "PRICING_CACHE_DATE_BUCKET"
	EnvDefaultStrategy  = "PRICING_DEFAULT_STRATEGY"
	EnvTenantStrategies = "PRICING_TENANT_STRATEGIES"
)

var legacyDBEnvVars = []string{
	EnvDBHost,
	EnvDBUser,
	EnvDBName,
}
