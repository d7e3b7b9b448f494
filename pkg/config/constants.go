package config

// EnvPrefix is passed to envconfig.Process; the explicit envconfig tags on
// every field already carry the full variable name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "DEVSHOP_APP_ENV"
	EnvPort         = "DEVSHOP_APP_PORT"
	EnvLogLevel     = "DEVSHOP_LOG_LEVEL"
	EnvLogWarnStack = "DEVSHOP_LOG_WARN_STACK"

	EnvDBDSN      = "DEVSHOP_DB_DSN"
	EnvDBHost     = "DEVSHOP_DB_HOST"
	EnvDBPort     = "DEVSHOP_DB_PORT"
	EnvDBUser     = "DEVSHOP_DB_USER"
	EnvDBPassword = "DEVSHOP_DB_PASSWORD"
	EnvDBName     = "DEVSHOP_DB_NAME"
	EnvDBSSLMode  = "DEVSHOP_DB_SSLMODE"

	EnvRedisURL = "DEVSHOP_REDIS_URL"

	EnvJWTSecret              = "DEVSHOP_JWT_SECRET"
	EnvJWTIssuer              = "DEVSHOP_JWT_ISSUER"
	EnvJWTExpMins             = "DEVSHOP_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "DEVSHOP_REFRESH_TOKEN_TTL_MINUTES"

	EnvCORSAllowedOrigins = "DEVSHOP_CORS_ALLOWED_ORIGINS"

	EnvAutoMigrate = "DEVSHOP_AUTO_MIGRATE"
	EnvSeedCatalog = "DEVSHOP_SEED_CATALOG"

	EnvBootstrapAdminEmail    = "DEVSHOP_BOOTSTRAP_ADMIN_EMAIL"
	EnvBootstrapAdminName     = "DEVSHOP_BOOTSTRAP_ADMIN_NAME"
	EnvBootstrapAdminPassword = "DEVSHOP_BOOTSTRAP_ADMIN_PASSWORD"
)

// legacyDBEnvVars are the variables required when DEVSHOP_DB_DSN is unset.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
