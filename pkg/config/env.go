package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so the
// prefix only matters for variables without a tag.
const EnvPrefix = "MAZRAATY"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Env var names referenced outside struct tags (error messages, tests).
const (
	EnvAppEnv = "MAZRAATY_APP_ENV"
	EnvPort   = "MAZRAATY_APP_PORT"
	EnvDBDSN  = "MAZRAATY_DB_DSN"
	EnvDBHost = "MAZRAATY_DB_HOST"
	EnvDBUser = "MAZRAATY_DB_USER"
	EnvDBName = "MAZRAATY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
