package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Webhook      WebhookConfig
	AmoCRM       AmoCRMConfig
	Integration  IntegrationConfig
	Components   ComponentsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WTAMOCRM_APP_ENV" required:"true"`
	Port         string `envconfig:"WTAMOCRM_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"WTAMOCRM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WTAMOCRM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"WTAMOCRM_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"WTAMOCRM_DB_DSN"`
	Driver string `envconfig:"WTAMOCRM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"WTAMOCRM_DB_HOST"`
	LegacyPort     int    `envconfig:"WTAMOCRM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WTAMOCRM_DB_USER"`
	LegacyPassword string `envconfig:"WTAMOCRM_DB_PASSWORD"`
	LegacyName     string `envconfig:"WTAMOCRM_DB_NAME"`
	LegacySSLMode  string `envconfig:"WTAMOCRM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WTAMOCRM_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"WTAMOCRM_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"WTAMOCRM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WTAMOCRM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WTAMOCRM_REDIS_URL"`
	Address      string        `envconfig:"WTAMOCRM_REDIS_ADDR"`
	Password     string        `envconfig:"WTAMOCRM_REDIS_PASSWORD"`
	DB           int           `envconfig:"WTAMOCRM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WTAMOCRM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WTAMOCRM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WTAMOCRM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WTAMOCRM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WTAMOCRM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig validates the admin tokens that guard the lead link endpoints.
type JWTConfig struct {
	Secret            string `envconfig:"WTAMOCRM_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"WTAMOCRM_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"WTAMOCRM_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"WTAMOCRM_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"WTAMOCRM_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	IdempotencyTTL time.Duration `envconfig:"WTAMOCRM_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"WTAMOCRM_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"WTAMOCRM_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	OrdersSubscription string `envconfig:"WTAMOCRM_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type WebhookConfig struct {
	Secret string `envconfig:"WTAMOCRM_WEBHOOK_SECRET" required:"true"`
}

type AmoCRMConfig struct {
	BaseURL    string        `envconfig:"WTAMOCRM_AMOCRM_BASE_URL"`
	Domain     string        `envconfig:"WTAMOCRM_AMOCRM_DOMAIN"`
	Token      string        `envconfig:"WTAMOCRM_AMOCRM_TOKEN" required:"true"`
	Timeout    time.Duration `envconfig:"WTAMOCRM_AMOCRM_TIMEOUT" default:"15s"`
	MaxRetries uint64        `envconfig:"WTAMOCRM_AMOCRM_MAX_RETRIES" default:"3"`

	// DomainCacheTTL bounds how long the account base domain is memoized in Redis.
	DomainCacheTTL time.Duration `envconfig:"WTAMOCRM_AMOCRM_DOMAIN_CACHE_TTL" default:"1h"`
}

// IntegrationConfig carries the per-integration options of the bridge.
type IntegrationConfig struct {
	PipelineID       int64    `envconfig:"WTAMOCRM_PIPELINE_ID"`
	LeadTagID        int64    `envconfig:"WTAMOCRM_LEAD_TAG_ID" default:"0"`
	Statuses         []int64  `envconfig:"WTAMOCRM_STATUSES"`
	NoteOrderItems   bool     `envconfig:"WTAMOCRM_NOTE_ORDER_ITEMS" default:"false"`
	SiteRoot         string   `envconfig:"WTAMOCRM_SITE_ROOT" required:"true"`
	Language         string   `envconfig:"WTAMOCRM_LANGUAGE" default:"en-GB"`
	AdminCORSOrigins []string `envconfig:"WTAMOCRM_ADMIN_CORS_ORIGINS"`
}

// StatusAllowed reports whether a status change should be forwarded to the CRM.
func (i IntegrationConfig) StatusAllowed(statusID int64) bool {
	for _, id := range i.Statuses {
		if id == statusID {
			return true
		}
	}
	return false
}

// ComponentsConfig carries the contact field label overrides configured in each host component.
type ComponentsConfig struct {
	RadicalMartFieldLabels map[string]string `envconfig:"WTAMOCRM_RADICALMART_FIELD_LABELS"`
	ExpressFieldLabels     map[string]string `envconfig:"WTAMOCRM_EXPRESS_FIELD_LABELS"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" {
		return nil
	}
	if useSQLite {
		db.Driver = DBDriverSQLite
		db.DSN = "file:wtamocrm.db?cache=shared"
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
