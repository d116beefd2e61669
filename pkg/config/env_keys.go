package config

// EnvPrefix namespaces every environment variable the platform reads.
const EnvPrefix = "LSP"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "LSP_APP_ENV"
	EnvPort     = "LSP_APP_PORT"
	EnvDBDSN    = "LSP_DB_DSN"
	EnvDBHost   = "LSP_DB_HOST"
	EnvDBUser   = "LSP_DB_USER"
	EnvDBName   = "LSP_DB_NAME"
	EnvRedisURL = "LSP_REDIS_URL"

	EnvGCPProjectID     = "LSP_GCP_PROJECT_ID"
	EnvPubSubAlertsTopic = "LSP_PUBSUB_ALERTS_TOPIC"
	EnvBigQueryDataset  = "LSP_BIGQUERY_DATASET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
