package config

const EnvPrefix = "MESA"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv                = "MESA_APP_ENV"
	EnvLogLevel              = "MESA_LOG_LEVEL"
	EnvBackendBaseURL        = "MESA_BACKEND_BASE_URL"
	EnvBackendRequestTimeout = "MESA_BACKEND_REQUEST_TIMEOUT"
	EnvRealtimeURL           = "MESA_REALTIME_URL"
	EnvLocalPort             = "MESA_LOCAL_PORT"
	EnvStorePath             = "MESA_STORE_PATH"
	EnvRedisURL              = "MESA_REDIS_URL"
	EnvSyncInterval          = "MESA_SYNC_INTERVAL"
	EnvOfflineDemo           = "MESA_OFFLINE_DEMO"
)
