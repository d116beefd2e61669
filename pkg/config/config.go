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
	GCP          GCPConfig
	PubSub       PubSubConfig
	BigQuery     BigQueryConfig
	Allocation   AllocationConfig
	Prediction   PredictionConfig
	Capacity     CapacityConfig
	Risk         RiskConfig
	ControlTower ControlTowerConfig
	Cron         CronConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"LSP_APP_ENV" required:"true"`
	Port         string   `envconfig:"LSP_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"LSP_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"LSP_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"LSP_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"LSP_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"LSP_DB_DSN"`
	Driver string `envconfig:"LSP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LSP_DB_HOST"`
	LegacyPort     int    `envconfig:"LSP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LSP_DB_USER"`
	LegacyPassword string `envconfig:"LSP_DB_PASSWORD"`
	LegacyName     string `envconfig:"LSP_DB_NAME"`
	LegacySSLMode  string `envconfig:"LSP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LSP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LSP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LSP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LSP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LSP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LSP_REDIS_ADDR"`
	Password     string        `envconfig:"LSP_REDIS_PASSWORD"`
	DB           int           `envconfig:"LSP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LSP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LSP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LSP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LSP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LSP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"LSP_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"LSP_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"LSP_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	AlertsTopic        string `envconfig:"LSP_PUBSUB_ALERTS_TOPIC" default:"lsp-control-tower-alerts"`
	AlertsSubscription string `envconfig:"LSP_PUBSUB_ALERTS_SUBSCRIPTION"`
}

type BigQueryConfig struct {
	Dataset          string `envconfig:"LSP_BIGQUERY_DATASET" default:"lsp_analytics"`
	OrderFactsTable  string `envconfig:"LSP_BIGQUERY_ORDER_FACTS_TABLE" default:"order_facts"`
	StatsWindowDays  int    `envconfig:"LSP_BIGQUERY_STATS_WINDOW_DAYS" default:"90"`
	FetchMaxAttempts int    `envconfig:"LSP_BIGQUERY_FETCH_MAX_ATTEMPTS" default:"3"`
}

type AllocationConfig struct {
	DecisionRetention time.Duration `envconfig:"LSP_ALLOCATION_DECISION_RETENTION" default:"2160h"`
}

// PredictionConfig feeds the SLA and day-performance predictors. The
// processing-hour table and transit defaults deliberately live here so the
// scoring code carries no magic numbers.
type PredictionConfig struct {
	MetroTransitHours    float64 `envconfig:"LSP_PREDICT_METRO_TRANSIT_HOURS" default:"24"`
	NonMetroTransitHours float64 `envconfig:"LSP_PREDICT_NON_METRO_TRANSIT_HOURS" default:"48"`
	RemoteTransitHours   float64 `envconfig:"LSP_PREDICT_REMOTE_TRANSIT_HOURS" default:"72"`
	UnshippedBufferHours float64 `envconfig:"LSP_PREDICT_UNSHIPPED_BUFFER_HOURS" default:"24"`
	LowBufferHours       float64 `envconfig:"LSP_PREDICT_LOW_BUFFER_HOURS" default:"6"`
	D0TargetPct          float64 `envconfig:"LSP_PREDICT_D0_TARGET_PCT" default:"95"`
	D1TargetPct          float64 `envconfig:"LSP_PREDICT_D1_TARGET_PCT" default:"98"`
	D2TargetPct          float64 `envconfig:"LSP_PREDICT_D2_TARGET_PCT" default:"99"`
	BatchLimit           int     `envconfig:"LSP_PREDICT_BATCH_LIMIT" default:"500"`
}

type CapacityConfig struct {
	AvgItemsPerOrder   float64 `envconfig:"LSP_CAPACITY_AVG_ITEMS_PER_ORDER" default:"2"`
	StretchedPct       float64 `envconfig:"LSP_CAPACITY_STRETCHED_PCT" default:"85"`
	OverloadedPct      float64 `envconfig:"LSP_CAPACITY_OVERLOADED_PCT" default:"95"`
	UnderUtilizedPct   float64 `envconfig:"LSP_CAPACITY_UNDER_UTILIZED_PCT" default:"60"`
	DemandWindowDays   int     `envconfig:"LSP_CAPACITY_DEMAND_WINDOW_DAYS" default:"28"`
	WorkdayStartHour   int     `envconfig:"LSP_CAPACITY_WORKDAY_START_HOUR" default:"8"`
	WorkdayEndHour     int     `envconfig:"LSP_CAPACITY_WORKDAY_END_HOUR" default:"20"`
}

type RiskConfig struct {
	ScanWindowHours  int     `envconfig:"LSP_RISK_SCAN_WINDOW_HOURS" default:"24"`
	ScanMinScore     float64 `envconfig:"LSP_RISK_SCAN_MIN_SCORE" default:"40"`
	ScanLimit        int     `envconfig:"LSP_RISK_SCAN_LIMIT" default:"200"`
	StatsWindowDays  int     `envconfig:"LSP_RISK_STATS_WINDOW_DAYS" default:"90"`
	HistoryOrderCap  int     `envconfig:"LSP_RISK_HISTORY_ORDER_CAP" default:"100"`
}

type ControlTowerConfig struct {
	SnapshotCacheTTL time.Duration `envconfig:"LSP_CONTROL_TOWER_CACHE_TTL" default:"60s"`
	SectionTimeout   time.Duration `envconfig:"LSP_CONTROL_TOWER_SECTION_TIMEOUT" default:"10s"`
	SLASummaryLimit  int           `envconfig:"LSP_CONTROL_TOWER_SLA_SUMMARY_LIMIT" default:"500"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"LSP_CRON_INTERVAL" default:"5m"`
}

type RateLimitConfig struct {
	AllocateWindow  time.Duration `envconfig:"LSP_RATE_LIMIT_ALLOCATE_WINDOW" default:"1m"`
	AllocateIPLimit int           `envconfig:"LSP_RATE_LIMIT_ALLOCATE_IP_LIMIT" default:"120"`
}

type FeatureFlagsConfig struct {
	AutoMigrate    bool `envconfig:"LSP_AUTO_MIGRATE" default:"false"`
	UseBigQuery    bool `envconfig:"LSP_USE_BIGQUERY" default:"false"`
	PublishAlerts  bool `envconfig:"LSP_PUBLISH_ALERTS" default:"false"`
	SnapshotCache  bool `envconfig:"LSP_SNAPSHOT_CACHE" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
