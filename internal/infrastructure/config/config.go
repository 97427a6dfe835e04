package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is only acceptable outside production
const DefaultJWTSecret = "salesdash-development-secret-change-me"

// Warehouse backends
const (
	WarehouseBigQuery = "bigquery"
	WarehouseSQL      = "sql"
)

// Storage backends
const (
	StorageGCS  = "gcs"
	StorageS3   = "s3"
	StorageFile = "file"
)

// Cache backends
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheTiered = "tiered"
	CacheNone   = "none"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Log       LogConfig
	Auth      AuthConfig
	Warehouse WarehouseConfig
	BigQuery  BigQueryConfig
	SQL       SQLConfig
	Storage   StorageConfig
	Cache     CacheConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	Version string
}

// IsProduction reports whether the app runs in production
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// HTTPConfig holds HTTP server settings
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AccessKey is a named viewer credential; Hash is a bcrypt hash of the key
type AccessKey struct {
	Name string `mapstructure:"name"`
	Hash string `mapstructure:"hash"`
}

// AuthConfig holds the dashboard access gate settings
type AuthConfig struct {
	Enabled         bool
	JWTSecret       string
	Issuer          string
	TokenExpiration time.Duration
	AccessKeys      []AccessKey
}

// TableConfig names the analytics tables
type TableConfig struct {
	KPI       string
	Customers string
	Products  string
	History   string
	Basket    string
	Seasonal  string
}

// WarehouseConfig selects and locates the analytics dataset
type WarehouseConfig struct {
	Backend      string // bigquery, sql
	Project      string
	Dataset      string
	QueryTimeout time.Duration
	Tables       TableConfig
}

// BigQueryConfig holds BigQuery client settings
type BigQueryConfig struct {
	CredentialsFile string
	CredentialsJSON string
	Location        string
}

// SQLConfig holds the settings of the SQL mirror of the dataset
type SQLConfig struct {
	Driver          string // postgres, sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite file or ":memory:"
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	LogLevel        string
	MigrationsPath  string
}

// S3Config holds settings for S3-compatible storage, including the GCS interop endpoint
type S3Config struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	UseSSL       bool
	UsePathStyle bool
}

// StorageConfig locates the prediction exports
type StorageConfig struct {
	Backend            string // gcs, s3, file
	Bucket             string
	Prefix             string
	GCSCredentialsFile string
	LocalDir           string
	S3                 S3Config
}

// CacheConfig holds query cache settings
type CacheConfig struct {
	Backend         string // memory, redis, tiered, none
	WarehouseTTL    time.Duration
	PredictionTTL   time.Duration
	L1TTL           time.Duration
	CleanupInterval time.Duration
	KeyPrefix       string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SchedulerConfig holds refresh scheduler settings
type SchedulerConfig struct {
	Enabled         bool
	WarmOnStart     bool
	RefreshInterval time.Duration
	Workers         int
	QueueSize       int
	JobTimeout      time.Duration
	RetryAttempts   int
	RetryDelay      time.Duration
}

// TelemetryConfig holds tracing and metrics settings
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	MetricsEnabled    bool
	MetricsPath       string
	DBTraceEnabled    bool
}

// Load reads configuration from config.toml and the environment.
// Priority (highest to lowest):
// 1. Environment variables with DASH_ prefix (e.g., DASH_REDIS_PASSWORD)
// 2. Variables from a .env file in the working directory
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path searches
// the default locations.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/salesdash")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("DASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	accessKeys, err := readAccessKeys(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			Version: v.GetString("app.version"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:  v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			RateLimitEnabled: v.GetBool("http.rate_limit_enabled"),
			RateLimitRPS:     v.GetFloat64("http.rate_limit_rps"),
			RateLimitBurst:   v.GetInt("http.rate_limit_burst"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Auth: AuthConfig{
			Enabled:         v.GetBool("auth.enabled"),
			JWTSecret:       v.GetString("auth.jwt_secret"),
			Issuer:          v.GetString("auth.issuer"),
			TokenExpiration: v.GetDuration("auth.token_expiration"),
			AccessKeys:      accessKeys,
		},
		Warehouse: WarehouseConfig{
			Backend:      v.GetString("warehouse.backend"),
			Project:      v.GetString("warehouse.project"),
			Dataset:      v.GetString("warehouse.dataset"),
			QueryTimeout: v.GetDuration("warehouse.query_timeout"),
			Tables: TableConfig{
				KPI:       v.GetString("warehouse.tables.kpi"),
				Customers: v.GetString("warehouse.tables.customers"),
				Products:  v.GetString("warehouse.tables.products"),
				History:   v.GetString("warehouse.tables.history"),
				Basket:    v.GetString("warehouse.tables.basket"),
				Seasonal:  v.GetString("warehouse.tables.seasonal"),
			},
		},
		BigQuery: BigQueryConfig{
			CredentialsFile: v.GetString("bigquery.credentials_file"),
			CredentialsJSON: v.GetString("bigquery.credentials_json"),
			Location:        v.GetString("bigquery.location"),
		},
		SQL: SQLConfig{
			Driver:          v.GetString("sql.driver"),
			Host:            v.GetString("sql.host"),
			Port:            v.GetInt("sql.port"),
			User:            v.GetString("sql.user"),
			Password:        v.GetString("sql.password"),
			DBName:          v.GetString("sql.dbname"),
			SSLMode:         v.GetString("sql.sslmode"),
			Path:            v.GetString("sql.path"),
			MaxOpenConns:    v.GetInt("sql.max_open_conns"),
			MaxIdleConns:    v.GetInt("sql.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("sql.conn_max_lifetime"),
			LogLevel:        v.GetString("sql.log_level"),
			MigrationsPath:  v.GetString("sql.migrations_path"),
		},
		Storage: StorageConfig{
			Backend:            v.GetString("storage.backend"),
			Bucket:             v.GetString("storage.bucket"),
			Prefix:             v.GetString("storage.prefix"),
			GCSCredentialsFile: v.GetString("storage.gcs_credentials_file"),
			LocalDir:           v.GetString("storage.local_dir"),
			S3: S3Config{
				Endpoint:     v.GetString("storage.s3.endpoint"),
				Region:       v.GetString("storage.s3.region"),
				AccessKey:    v.GetString("storage.s3.access_key"),
				SecretKey:    v.GetString("storage.s3.secret_key"),
				UseSSL:       v.GetBool("storage.s3.use_ssl"),
				UsePathStyle: v.GetBool("storage.s3.use_path_style"),
			},
		},
		Cache: CacheConfig{
			Backend:         v.GetString("cache.backend"),
			WarehouseTTL:    v.GetDuration("cache.warehouse_ttl"),
			PredictionTTL:   v.GetDuration("cache.prediction_ttl"),
			L1TTL:           v.GetDuration("cache.l1_ttl"),
			CleanupInterval: v.GetDuration("cache.cleanup_interval"),
			KeyPrefix:       v.GetString("cache.key_prefix"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Scheduler: SchedulerConfig{
			Enabled:         v.GetBool("scheduler.enabled"),
			WarmOnStart:     v.GetBool("scheduler.warm_on_start"),
			RefreshInterval: v.GetDuration("scheduler.refresh_interval"),
			Workers:         v.GetInt("scheduler.workers"),
			QueueSize:       v.GetInt("scheduler.queue_size"),
			JobTimeout:      v.GetDuration("scheduler.job_timeout"),
			RetryAttempts:   v.GetInt("scheduler.retry_attempts"),
			RetryDelay:      v.GetDuration("scheduler.retry_delay"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsPath:       v.GetString("telemetry.metrics_path"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// readAccessKeys accepts either a TOML array of tables or, from the
// environment, a "name:hash,name:hash" list.
func readAccessKeys(v *viper.Viper) ([]AccessKey, error) {
	raw := v.Get("auth.access_keys")
	if raw == nil {
		return nil, nil
	}
	if s, ok := raw.(string); ok {
		return ParseAccessKeys(s)
	}
	var keys []AccessKey
	if err := v.UnmarshalKey("auth.access_keys", &keys); err != nil {
		return nil, fmt.Errorf("error reading auth.access_keys: %w", err)
	}
	return keys, nil
}

// ParseAccessKeys parses "name:hash,name:hash"
func ParseAccessKeys(s string) ([]AccessKey, error) {
	var keys []AccessKey
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, hash, ok := strings.Cut(item, ":")
		if !ok || name == "" || hash == "" {
			return nil, fmt.Errorf("invalid access key entry %q: expected name:hash", item)
		}
		keys = append(keys, AccessKey{Name: name, Hash: hash})
	}
	return keys, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "salesdash"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "1.0.0"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 30 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 120 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20
	}
	if cfg.HTTP.RateLimitRPS == 0 {
		cfg.HTTP.RateLimitRPS = 10
	}
	if cfg.HTTP.RateLimitBurst == 0 {
		cfg.HTTP.RateLimitBurst = 20
	}
	if len(cfg.HTTP.CORSAllowOrigins) == 0 {
		cfg.HTTP.CORSAllowOrigins = []string{"http://localhost:3000", "http://localhost:8501"}
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = DefaultJWTSecret
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = cfg.App.Name
	}
	if cfg.Auth.TokenExpiration == 0 {
		cfg.Auth.TokenExpiration = 12 * time.Hour
	}

	if cfg.Warehouse.Backend == "" {
		cfg.Warehouse.Backend = WarehouseBigQuery
	}
	if cfg.Warehouse.Project == "" {
		cfg.Warehouse.Project = "ml-goldman-hotels-vit-vertex"
	}
	if cfg.Warehouse.Dataset == "" {
		cfg.Warehouse.Dataset = "sales_analytics"
	}
	if cfg.Warehouse.QueryTimeout == 0 {
		cfg.Warehouse.QueryTimeout = 60 * time.Second
	}
	t := &cfg.Warehouse.Tables
	if t.KPI == "" {
		t.KPI = "kpi_summary"
	}
	if t.Customers == "" {
		t.Customers = "customer_analytics"
	}
	if t.Products == "" {
		t.Products = "product_analytics"
	}
	if t.History == "" {
		t.History = "customer_product_monthly"
	}
	if t.Basket == "" {
		t.Basket = "basket_analysis"
	}
	if t.Seasonal == "" {
		t.Seasonal = "seasonal_patterns"
	}
	if cfg.BigQuery.Location == "" {
		cfg.BigQuery.Location = "US"
	}

	if cfg.SQL.Driver == "" {
		cfg.SQL.Driver = "postgres"
	}
	if cfg.SQL.Host == "" {
		cfg.SQL.Host = "localhost"
	}
	if cfg.SQL.Port == 0 {
		cfg.SQL.Port = 5432
	}
	if cfg.SQL.User == "" {
		cfg.SQL.User = "postgres"
	}
	if cfg.SQL.DBName == "" {
		cfg.SQL.DBName = "salesdash"
	}
	if cfg.SQL.SSLMode == "" {
		cfg.SQL.SSLMode = "disable"
	}
	if cfg.SQL.Path == "" {
		cfg.SQL.Path = "salesdash.db"
	}
	if cfg.SQL.MaxOpenConns == 0 {
		cfg.SQL.MaxOpenConns = 10
	}
	if cfg.SQL.MaxIdleConns == 0 {
		cfg.SQL.MaxIdleConns = 5
	}
	if cfg.SQL.ConnMaxLifetime == 0 {
		cfg.SQL.ConnMaxLifetime = 30
	}
	if cfg.SQL.LogLevel == "" {
		cfg.SQL.LogLevel = "warn"
	}
	if cfg.SQL.MigrationsPath == "" {
		cfg.SQL.MigrationsPath = "migrations"
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = StorageGCS
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "ml-goldman-hotels-vit-vertex-bucket"
	}
	if cfg.Storage.Prefix == "" {
		cfg.Storage.Prefix = "streamlit_exports/predictions_"
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = "data/exports"
	}
	if cfg.Storage.S3.Endpoint == "" {
		cfg.Storage.S3.Endpoint = "https://storage.googleapis.com"
	}
	if cfg.Storage.S3.Region == "" {
		cfg.Storage.S3.Region = "auto"
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheMemory
	}
	if cfg.Cache.WarehouseTTL == 0 {
		cfg.Cache.WarehouseTTL = 600 * time.Second
	}
	if cfg.Cache.PredictionTTL == 0 {
		cfg.Cache.PredictionTTL = 300 * time.Second
	}
	if cfg.Cache.L1TTL == 0 {
		cfg.Cache.L1TTL = 60 * time.Second
	}
	if cfg.Cache.CleanupInterval == 0 {
		cfg.Cache.CleanupInterval = time.Minute
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = "salesdash:"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}

	if cfg.Scheduler.RefreshInterval == 0 {
		cfg.Scheduler.RefreshInterval = 7 * 24 * time.Hour
	}
	if cfg.Scheduler.Workers == 0 {
		cfg.Scheduler.Workers = 2
	}
	if cfg.Scheduler.QueueSize == 0 {
		cfg.Scheduler.QueueSize = 100
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 5 * time.Minute
	}
	if cfg.Scheduler.RetryAttempts == 0 {
		cfg.Scheduler.RetryAttempts = 3
	}
	if cfg.Scheduler.RetryDelay == 0 {
		cfg.Scheduler.RetryDelay = 30 * time.Second
	}

	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.MetricsPath == "" {
		cfg.Telemetry.MetricsPath = "/metrics"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Warehouse.Backend {
	case WarehouseBigQuery, WarehouseSQL:
	default:
		return fmt.Errorf("warehouse.backend must be %q or %q, got %q", WarehouseBigQuery, WarehouseSQL, c.Warehouse.Backend)
	}
	if c.Warehouse.Backend == WarehouseSQL {
		switch c.SQL.Driver {
		case "postgres", "sqlite":
		default:
			return fmt.Errorf("sql.driver must be postgres or sqlite, got %q", c.SQL.Driver)
		}
		if c.SQL.MaxIdleConns > c.SQL.MaxOpenConns {
			return fmt.Errorf("sql.max_idle_conns (%d) cannot exceed sql.max_open_conns (%d)",
				c.SQL.MaxIdleConns, c.SQL.MaxOpenConns)
		}
	}

	switch c.Storage.Backend {
	case StorageGCS, StorageFile:
	case StorageS3:
		if c.Storage.S3.AccessKey == "" || c.Storage.S3.SecretKey == "" {
			return fmt.Errorf("storage.s3.access_key and storage.s3.secret_key are required for the s3 backend")
		}
	default:
		return fmt.Errorf("storage.backend must be gcs, s3 or file, got %q", c.Storage.Backend)
	}

	switch c.Cache.Backend {
	case CacheMemory, CacheRedis, CacheTiered, CacheNone:
	default:
		return fmt.Errorf("cache.backend must be memory, redis, tiered or none, got %q", c.Cache.Backend)
	}

	if c.Auth.Enabled && len(c.Auth.AccessKeys) == 0 {
		return fmt.Errorf("auth.access_keys must not be empty when auth is enabled")
	}

	// Production-specific validations
	if c.App.IsProduction() {
		if !c.Auth.Enabled {
			return fmt.Errorf("auth.enabled must be true in production")
		}
		if c.Auth.JWTSecret == DefaultJWTSecret || len(c.Auth.JWTSecret) < 32 {
			return fmt.Errorf("auth.jwt_secret must be set to at least 32 characters in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Warehouse.Backend == WarehouseSQL && c.SQL.Driver == "postgres" && c.SQL.SSLMode == "disable" {
			return fmt.Errorf("sql.sslmode cannot be 'disable' in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the postgres connection string with properly escaped values
func (d *SQLConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
