package config

// EnvPrefix is handed to envconfig; every field carries its full variable name.
const EnvPrefix = "KARAOKE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv     = "KARAOKE_APP_ENV"
	EnvPort       = "KARAOKE_APP_PORT"
	EnvTimeZone   = "KARAOKE_TIME_ZONE"
	EnvDBDSN      = "KARAOKE_DB_DSN"
	EnvDBDriver   = "KARAOKE_DB_DRIVER"
	EnvDBHost     = "KARAOKE_DB_HOST"
	EnvDBUser     = "KARAOKE_DB_USER"
	EnvDBPassword = "KARAOKE_DB_PASSWORD"
	EnvDBName     = "KARAOKE_DB_NAME"
	EnvRedisURL   = "KARAOKE_REDIS_URL"
	EnvJWTSecret  = "KARAOKE_JWT_SECRET"
	EnvJWTIssuer  = "KARAOKE_JWT_ISSUER"
	EnvJWTExpMins = "KARAOKE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
