package config

const EnvPrefix = "WTAMOCRM"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "WTAMOCRM_APP_ENV"
	EnvPort     = "WTAMOCRM_APP_PORT"
	EnvLogLevel = "WTAMOCRM_LOG_LEVEL"

	EnvDBDSN  = "WTAMOCRM_DB_DSN"
	EnvDBHost = "WTAMOCRM_DB_HOST"
	EnvDBUser = "WTAMOCRM_DB_USER"
	EnvDBName = "WTAMOCRM_DB_NAME"

	EnvUseSQLite = "WTAMOCRM_USE_SQLITE"
	EnvRedisURL  = "WTAMOCRM_REDIS_URL"

	EnvJWTSecret = "WTAMOCRM_JWT_SECRET"
	EnvJWTIssuer = "WTAMOCRM_JWT_ISSUER"

	EnvWebhookSecret = "WTAMOCRM_WEBHOOK_SECRET"

	EnvAmoCRMToken  = "WTAMOCRM_AMOCRM_TOKEN"
	EnvAmoCRMDomain = "WTAMOCRM_AMOCRM_DOMAIN"

	EnvPipelineID             = "WTAMOCRM_PIPELINE_ID"
	EnvLeadTagID              = "WTAMOCRM_LEAD_TAG_ID"
	EnvStatuses               = "WTAMOCRM_STATUSES"
	EnvNoteOrderItems         = "WTAMOCRM_NOTE_ORDER_ITEMS"
	EnvSiteRoot               = "WTAMOCRM_SITE_ROOT"
	EnvRadicalMartFieldLabels = "WTAMOCRM_RADICALMART_FIELD_LABELS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
