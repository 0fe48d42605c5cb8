package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	AutoMigrate        bool
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// RedisConfig holds the optional catalog cache connection. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LogConfig selects zap's encoder and level.
type LogConfig struct {
	Level  string
	Format string
}

// Catalog source names.
const (
	CatalogSourcePostgres = "postgres"
	CatalogSourceObject   = "object"
)

// CatalogConfig says where the document type catalog is read from and how long it is cached.
type CatalogConfig struct {
	Source    string
	ObjectKey string
	CacheTTL  time.Duration
}

// ComplianceConfig tunes the in-memory evaluation step.
type ComplianceConfig struct {
	Parallelism int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	// AppHost is the externally reachable host:port published in the Swagger document.
	AppHost    string
	Port       string
	Log        LogConfig
	Database   DatabaseConfig
	MinIO      MinIOConfig
	Redis      RedisConfig
	Catalog    CatalogConfig
	Compliance ComplianceConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// When CONFIG_FILE is set, that file (yaml, json, env, ...) provides values below the environment.
func Load() (*AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &AppConfig{
		AppHost: v.GetString("APP_HOST"),
		Port:    v.GetString("PORT"),
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Database: DatabaseConfig{
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetString("DB_PORT"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			Name:               v.GetString("DB_NAME"),
			SSLMode:            v.GetString("DB_SSLMODE"),
			MaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:       v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetimeSec: v.GetInt("DB_CONN_MAX_LIFETIME_SEC"),
			AutoMigrate:        v.GetBool("DB_AUTO_MIGRATE"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Catalog: CatalogConfig{
			Source:    v.GetString("CATALOG_SOURCE"),
			ObjectKey: v.GetString("CATALOG_OBJECT_KEY"),
			CacheTTL:  v.GetDuration("CATALOG_CACHE_TTL"),
		},
		Compliance: ComplianceConfig{
			Parallelism: v.GetInt("COMPLIANCE_PARALLELISM"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// defaults only for non-sensitive values
	v.SetDefault("APP_HOST", "localhost:8080")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_SEC", 300)
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CATALOG_SOURCE", CatalogSourcePostgres)
	v.SetDefault("CATALOG_OBJECT_KEY", "catalog/document_types.yaml")
	v.SetDefault("CATALOG_CACHE_TTL", "5m")
	v.SetDefault("COMPLIANCE_PARALLELISM", runtime.GOMAXPROCS(0))

	// AutomaticEnv only sees keys viper already knows about.
	for _, k := range []string{"CONFIG_FILE", "DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET", "REDIS_ADDR", "REDIS_PASSWORD"} {
		v.SetDefault(k, "")
	}
}

func (c *AppConfig) validate() error {
	switch c.Catalog.Source {
	case CatalogSourcePostgres:
	case CatalogSourceObject:
		if c.Catalog.ObjectKey == "" {
			return fmt.Errorf("CATALOG_OBJECT_KEY is required when CATALOG_SOURCE=%s", CatalogSourceObject)
		}
	default:
		return fmt.Errorf("unsupported CATALOG_SOURCE %q", c.Catalog.Source)
	}
	if c.Compliance.Parallelism < 1 {
		c.Compliance.Parallelism = 1
	}
	return nil
}
