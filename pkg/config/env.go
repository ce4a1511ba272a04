package config

// EnvPrefix namespaces envconfig lookups. Field tags carry the full variable
// name, which envconfig falls back to when the prefixed key is unset.
const EnvPrefix = "REWEAR"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "REWEAR_APP_ENV"
	EnvPort     = "REWEAR_APP_PORT"
	EnvLogLevel = "REWEAR_LOG_LEVEL"

	EnvDBDSN    = "REWEAR_DB_DSN"
	EnvDBDriver = "REWEAR_DB_DRIVER"
	EnvDBHost   = "REWEAR_DB_HOST"
	EnvDBPort   = "REWEAR_DB_PORT"
	EnvDBUser   = "REWEAR_DB_USER"
	EnvDBPass   = "REWEAR_DB_PASSWORD"
	EnvDBName   = "REWEAR_DB_NAME"
	EnvDBSSL    = "REWEAR_DB_SSLMODE"

	EnvRedisURL = "REWEAR_REDIS_URL"

	EnvJWTSecret              = "REWEAR_JWT_SECRET"
	EnvJWTIssuer              = "REWEAR_JWT_ISSUER"
	EnvJWTExpMins             = "REWEAR_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "REWEAR_REFRESH_TOKEN_TTL_MINUTES"

	EnvUseSQLite   = "REWEAR_USE_SQLITE"
	EnvAutoMigrate = "REWEAR_AUTO_MIGRATE"

	EnvUploadsDir     = "REWEAR_UPLOADS_DIR"
	EnvMaxUploadMB    = "REWEAR_MAX_UPLOAD_MB"
	EnvMaxUploadFiles = "REWEAR_MAX_UPLOAD_FILES"

	EnvListingDefaultLimit = "REWEAR_LISTING_DEFAULT_LIMIT"
	EnvListingMaxLimit     = "REWEAR_LISTING_MAX_LIMIT"

	EnvCORSAllowedOrigins = "REWEAR_CORS_ALLOWED_ORIGINS"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
