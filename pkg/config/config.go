package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Dataset source kinds.
const (
	SourceDir      = "dir"
	SourceHTTP     = "http"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Log         LogConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Data        DataConfig
	ObjectStore ObjectStoreConfig
	Metrics     MetricsConfig
	Dashboard   DashboardConfig
	Override    OverrideConfig
	Reports     ReportsConfig
	Auth        AuthConfig
}

type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig selects level and encoding. A non-empty File adds a rotating file sink.
type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DataConfig tells the loader where the six CSV resources live.
type DataConfig struct {
	Source       string
	Dir          string
	BaseURL      string
	FetchTimeout time.Duration
	Bucket       string
	Prefix       string
	Location     string
	MaxUploadMB  int64
}

// ObjectStoreConfig holds S3/MinIO credentials for the s3 data source.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// MetricsConfig carries the analytic defaults users can override per request.
type MetricsConfig struct {
	SLAThresholdMinutes    float64
	UseTimestampResolution bool
	HourlyRate             float64
	DefaultAdminRate       float64
	RoleScope              string
}

// DashboardConfig governs dashboard cache tuning.
type DashboardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// OverrideConfig controls where an uploaded dataset is kept and for how long.
type OverrideConfig struct {
	Key string
	TTL time.Duration
}

// ReportsConfig configures asynchronous report generation.
type ReportsConfig struct {
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	CleanupInterval   time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

// AuthConfig describes the demo account accepted by the login endpoint.
type AuthConfig struct {
	DemoEmail        string
	DemoPassword     string
	DemoPasswordHash string
	DemoName         string
	DemoRole         string
	DemoAdminID      int
	DemoDepartmentID int
	DemoDepartment   string
}

// Location resolves Data.Location, falling back to UTC.
func (c *Config) Location() *time.Location {
	if c == nil || c.Data.Location == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Data.Location)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Log = LogConfig{
		Level:      v.GetString("LOG_LEVEL"),
		Format:     v.GetString("LOG_FORMAT"),
		File:       v.GetString("LOG_FILE"),
		MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
		MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
	}

	cfg.Database = DatabaseConfig{
		Enabled:      v.GetBool("DB_ENABLED"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Data = DataConfig{
		Source:       strings.ToLower(v.GetString("DATA_SOURCE")),
		Dir:          v.GetString("DATA_DIR"),
		BaseURL:      v.GetString("DATA_BASE_URL"),
		FetchTimeout: parseDuration(v.GetString("DATA_FETCH_TIMEOUT"), 10*time.Second),
		Bucket:       v.GetString("DATA_BUCKET"),
		Prefix:       v.GetString("DATA_PREFIX"),
		Location:     v.GetString("DATA_TIMEZONE"),
		MaxUploadMB:  v.GetInt64("DATA_MAX_UPLOAD_MB"),
	}

	cfg.ObjectStore = ObjectStoreConfig{
		Endpoint:  v.GetString("OBJECT_STORE_ENDPOINT"),
		AccessKey: v.GetString("OBJECT_STORE_ACCESS_KEY"),
		SecretKey: v.GetString("OBJECT_STORE_SECRET_KEY"),
		UseSSL:    v.GetBool("OBJECT_STORE_USE_SSL"),
	}

	cfg.Metrics = MetricsConfig{
		SLAThresholdMinutes:    v.GetFloat64("SLA_THRESHOLD_MINUTES"),
		UseTimestampResolution: v.GetBool("USE_TIMESTAMP_RESOLUTION"),
		HourlyRate:             v.GetFloat64("HOURLY_RATE"),
		DefaultAdminRate:       v.GetFloat64("DEFAULT_ADMIN_RATE"),
		RoleScope:              v.GetString("ROLE_SCOPE"),
	}

	cfg.Dashboard = DashboardConfig{
		CacheEnabled: v.GetBool("DASHBOARD_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Override = OverrideConfig{
		Key: v.GetString("OVERRIDE_KEY"),
		TTL: parseDuration(v.GetString("OVERRIDE_TTL"), 12*time.Hour),
	}

	cfg.Reports = ReportsConfig{
		StorageDir:        v.GetString("REPORTS_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("REPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("REPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupInterval:   parseDuration(v.GetString("REPORTS_CLEANUP_INTERVAL"), time.Hour),
		WorkerConcurrency: v.GetInt("REPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("REPORTS_WORKER_RETRIES"),
	}

	cfg.Auth = AuthConfig{
		DemoEmail:        v.GetString("DEMO_EMAIL"),
		DemoPassword:     v.GetString("DEMO_PASSWORD"),
		DemoPasswordHash: v.GetString("DEMO_PASSWORD_HASH"),
		DemoName:         v.GetString("DEMO_NAME"),
		DemoRole:         v.GetString("DEMO_ROLE"),
		DemoAdminID:      v.GetInt("DEMO_ADMIN_ID"),
		DemoDepartmentID: v.GetInt("DEMO_DEPARTMENT_ID"),
		DemoDepartment:   v.GetString("DEMO_DEPARTMENT"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_MAX_SIZE_MB", 16)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)

	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "silverleaf_workload")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")

	v.SetDefault("DATA_SOURCE", SourceDir)
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("DATA_BASE_URL", "")
	v.SetDefault("DATA_FETCH_TIMEOUT", "10s")
	v.SetDefault("DATA_BUCKET", "")
	v.SetDefault("DATA_PREFIX", "")
	v.SetDefault("DATA_TIMEZONE", "UTC")
	v.SetDefault("DATA_MAX_UPLOAD_MB", 20)

	v.SetDefault("OBJECT_STORE_ENDPOINT", "localhost:9000")
	v.SetDefault("OBJECT_STORE_ACCESS_KEY", "")
	v.SetDefault("OBJECT_STORE_SECRET_KEY", "")
	v.SetDefault("OBJECT_STORE_USE_SSL", false)

	v.SetDefault("SLA_THRESHOLD_MINUTES", 60)
	v.SetDefault("USE_TIMESTAMP_RESOLUTION", true)
	v.SetDefault("HOURLY_RATE", 25)
	v.SetDefault("DEFAULT_ADMIN_RATE", 25)
	v.SetDefault("ROLE_SCOPE", "all")

	v.SetDefault("DASHBOARD_CACHE_ENABLED", true)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("OVERRIDE_KEY", "dashboard:override")
	v.SetDefault("OVERRIDE_TTL", "12h")

	v.SetDefault("REPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("REPORTS_SIGNED_URL_SECRET", "dev_reports_secret")
	v.SetDefault("REPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("REPORTS_CLEANUP_INTERVAL", "1h")
	v.SetDefault("REPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("REPORTS_WORKER_RETRIES", 3)

	v.SetDefault("DEMO_EMAIL", "john.smith@silverleaf.edu")
	// DEMO_PASSWORD is hashed at startup unless DEMO_PASSWORD_HASH is set.
	v.SetDefault("DEMO_PASSWORD", "demo123")
	v.SetDefault("DEMO_PASSWORD_HASH", "")
	v.SetDefault("DEMO_NAME", "John Smith")
	v.SetDefault("DEMO_ROLE", "admin")
	v.SetDefault("DEMO_ADMIN_ID", 1)
	v.SetDefault("DEMO_DEPARTMENT_ID", 101)
	v.SetDefault("DEMO_DEPARTMENT", "Registrar")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
