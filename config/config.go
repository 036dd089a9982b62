package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// configPathEnv names an optional YAML file applied before env overrides.
const configPathEnv = "COTTONTRACE_CONFIG"

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logger     LoggerConfig     `yaml:"logger"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	FibreTrace FibreTraceConfig `yaml:"fibretrace"`
	Store      StoreConfig      `yaml:"store"`
	Export     ExportConfig     `yaml:"export"`
	Minio      MinioConfig      `yaml:"minio"`
}

type ServerConfig struct {
	AppEnv   string `yaml:"appEnv"`
	GRPCPort string `yaml:"grpcPort"`
}

type LoggerConfig struct {
	Level             string `yaml:"level"`
	Encoding          string `yaml:"encoding"`
	DisableCaller     bool   `yaml:"disableCaller"`
	DisableStacktrace bool   `yaml:"disableStacktrace"`
}

type PostgresConfig struct {
	Host            string `yaml:"host"`
	Port            string `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbName"`
	SSLMode         string `yaml:"sslMode"`
	MaxOpenConns    int    `yaml:"maxOpenConns"`
	MaxIdleConns    int    `yaml:"maxIdleConns"`
	ConnMaxLifetime int    `yaml:"connMaxLifetime"`
	ConnMaxIdleTime int    `yaml:"connMaxIdleTime"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	ListTTL  time.Duration `yaml:"listTTL"`

	// LocalSize caps the in-process list cache used when Redis is off.
	LocalSize int `yaml:"localSize"`
}

type KafkaConfig struct {
	Enabled         bool     `yaml:"enabled"`
	Brokers         []string `yaml:"brokers"`
	CustodyTopic    string   `yaml:"custodyTopic"`
	ComplianceTopic string   `yaml:"complianceTopic"`
	GroupID         string   `yaml:"groupId"`
}

type FibreTraceConfig struct {
	BaseURL   string        `yaml:"baseUrl"`
	APIKey    string        `yaml:"apiKey"`
	UseMock   bool          `yaml:"useMock"`
	MockDelay time.Duration `yaml:"mockDelay"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rateLimit"`
	RateBurst int           `yaml:"rateBurst"`

	// SyncLockTTL bounds how long a replica holds a batch sync lock.
	SyncLockTTL time.Duration `yaml:"syncLockTTL"`
}

const (
	SourceMock     = "mock"
	SourcePostgres = "postgres"
)

type StoreConfig struct {
	// Source is where batches come from: mock or postgres.
	Source       string        `yaml:"source"`
	Seed         uint64        `yaml:"seed"`
	BatchCount   int           `yaml:"batchCount"`
	IsotopeCount int           `yaml:"isotopeCount"`
	FetchDelay   time.Duration `yaml:"fetchDelay"`
}

type ExportConfig struct {
	Dir      string `yaml:"dir"`
	UseMinio bool   `yaml:"useMinio"`
}

type MinioConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	UseSSL          bool   `yaml:"useSSL"`
}

// LoadEnv builds the config from defaults, the optional YAML file and
// then environment variables, later sources winning.
func LoadEnv() *Config {
	cfg := defaultConfig()
	if path := os.Getenv(configPathEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			log.Printf("config: %v (continuing with defaults)", err)
		}
	}
	cfg.applyEnv()
	return cfg
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("cannot parse %s: %w", path, err)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{AppEnv: "dev", GRPCPort: ":8082"},
		Logger: LoggerConfig{
			Level:             "debug",
			Encoding:          "console",
			DisableStacktrace: true,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            "5433",
			User:            "cottontrace",
			Password:        "cottontrace",
			DBName:          "cottontrace",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 60,
		},
		Redis: RedisConfig{Addr: "localhost:6379", ListTTL: 5 * time.Minute, LocalSize: 1024},
		Kafka: KafkaConfig{
			Brokers:         []string{"localhost:9092"},
			CustodyTopic:    "custody.events",
			ComplianceTopic: "compliance.events",
			GroupID:         "cottontrace",
		},
		FibreTrace: FibreTraceConfig{
			BaseURL:     "https://api.fibretrace.io",
			UseMock:     true,
			MockDelay:   time.Second,
			Timeout:     30 * time.Second,
			RateLimit:   5,
			RateBurst:   1,
			SyncLockTTL: time.Minute,
		},
		Store: StoreConfig{
			Source:       SourceMock,
			Seed:         20241016,
			BatchCount:   156,
			IsotopeCount: 20,
			FetchDelay:   300 * time.Millisecond,
		},
		Export: ExportConfig{Dir: "exports"},
		Minio:  MinioConfig{Endpoint: "localhost:9000", Bucket: "cottontrace-exports", Region: "us-east-1"},
	}
}

func (c *Config) applyEnv() {
	c.Server.AppEnv = getEnv("APP_ENV", c.Server.AppEnv)
	c.Server.GRPCPort = getEnv("GRPC_PORT", c.Server.GRPCPort)

	c.Logger.Level = getEnv("LOGGER_LEVEL", c.Logger.Level)
	c.Logger.Encoding = getEnv("LOGGER_ENCODING", c.Logger.Encoding)
	c.Logger.DisableCaller = getEnvBool("LOGGER_DISABLE_CALLER", c.Logger.DisableCaller)
	c.Logger.DisableStacktrace = getEnvBool("LOGGER_DISABLE_STACKTRACE", c.Logger.DisableStacktrace)

	c.Postgres.Host = getEnv("POSTGRES_HOST", c.Postgres.Host)
	c.Postgres.Port = getEnv("POSTGRES_PORT", c.Postgres.Port)
	c.Postgres.User = getEnv("POSTGRES_USER", c.Postgres.User)
	c.Postgres.Password = getEnv("POSTGRES_PASSWORD", c.Postgres.Password)
	c.Postgres.DBName = getEnv("POSTGRES_DB", c.Postgres.DBName)
	c.Postgres.SSLMode = getEnv("POSTGRES_SSLMODE", c.Postgres.SSLMode)
	c.Postgres.MaxOpenConns = getEnvInt("POSTGRES_MAX_OPEN_CONNS", c.Postgres.MaxOpenConns)
	c.Postgres.MaxIdleConns = getEnvInt("POSTGRES_MAX_IDLE_CONNS", c.Postgres.MaxIdleConns)
	c.Postgres.ConnMaxLifetime = getEnvInt("POSTGRES_CONN_MAX_LIFETIME", c.Postgres.ConnMaxLifetime)
	c.Postgres.ConnMaxIdleTime = getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", c.Postgres.ConnMaxIdleTime)

	c.Redis.Enabled = getEnvBool("REDIS_ENABLED", c.Redis.Enabled)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
	c.Redis.ListTTL = getEnvDuration("REDIS_LIST_TTL", c.Redis.ListTTL)
	c.Redis.LocalSize = getEnvInt("REDIS_LOCAL_SIZE", c.Redis.LocalSize)

	c.Kafka.Enabled = getEnvBool("KAFKA_ENABLED", c.Kafka.Enabled)
	c.Kafka.Brokers = getEnvSlice("KAFKA_BROKERS", c.Kafka.Brokers)
	c.Kafka.CustodyTopic = getEnv("KAFKA_TOPIC_CUSTODY", c.Kafka.CustodyTopic)
	c.Kafka.ComplianceTopic = getEnv("KAFKA_TOPIC_COMPLIANCE", c.Kafka.ComplianceTopic)
	c.Kafka.GroupID = getEnv("KAFKA_GROUP_ID", c.Kafka.GroupID)

	c.FibreTrace.BaseURL = getEnv("FIBRETRACE_API_URL", c.FibreTrace.BaseURL)
	c.FibreTrace.APIKey = getEnv("FIBRETRACE_API_KEY", c.FibreTrace.APIKey)
	c.FibreTrace.UseMock = getEnvBool("FIBRETRACE_USE_MOCK", c.FibreTrace.UseMock)
	c.FibreTrace.MockDelay = getEnvDuration("FIBRETRACE_MOCK_DELAY", c.FibreTrace.MockDelay)
	c.FibreTrace.Timeout = getEnvDuration("FIBRETRACE_TIMEOUT", c.FibreTrace.Timeout)
	c.FibreTrace.RateLimit = getEnvFloat("FIBRETRACE_RATE_LIMIT", c.FibreTrace.RateLimit)
	c.FibreTrace.RateBurst = getEnvInt("FIBRETRACE_RATE_BURST", c.FibreTrace.RateBurst)
	c.FibreTrace.SyncLockTTL = getEnvDuration("FIBRETRACE_SYNC_LOCK_TTL", c.FibreTrace.SyncLockTTL)

	c.Store.Source = getEnv("STORE_SOURCE", c.Store.Source)
	c.Store.Seed = uint64(getEnvInt("STORE_SEED", int(c.Store.Seed)))
	c.Store.BatchCount = getEnvInt("STORE_BATCH_COUNT", c.Store.BatchCount)
	c.Store.IsotopeCount = getEnvInt("STORE_ISOTOPE_COUNT", c.Store.IsotopeCount)
	c.Store.FetchDelay = getEnvDuration("STORE_FETCH_DELAY", c.Store.FetchDelay)

	c.Export.Dir = getEnv("EXPORT_DIR", c.Export.Dir)
	c.Export.UseMinio = getEnvBool("EXPORT_USE_MINIO", c.Export.UseMinio)

	c.Minio.Endpoint = getEnv("MINIO_ENDPOINT", c.Minio.Endpoint)
	c.Minio.AccessKeyID = getEnv("MINIO_ACCESS_KEY_ID", c.Minio.AccessKeyID)
	c.Minio.SecretAccessKey = getEnv("MINIO_SECRET_ACCESS_KEY", c.Minio.SecretAccessKey)
	c.Minio.Bucket = getEnv("MINIO_BUCKET", c.Minio.Bucket)
	c.Minio.Region = getEnv("MINIO_REGION", c.Minio.Region)
	c.Minio.UseSSL = getEnvBool("MINIO_USE_SSL", c.Minio.UseSSL)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return fallback
}
