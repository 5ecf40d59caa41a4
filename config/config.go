package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	JWT    JWTConfig
	Export ExportConfig
	Kafka  KafkaConfig
	Log    LogConfig
}

type AppConfig struct {
	Port        string
	Env         string
	CORSOrigins []string
}

// IsProduction reports whether the app runs with production defaults.
func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type DBConfig struct {
	Driver      string
	Path        string // sqlite file, ignored by postgres
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	TimeZone    string
	AutoMigrate bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	StatsTTL time.Duration
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// Enabled reports whether mutating routes require a bearer token.
func (c JWTConfig) Enabled() bool {
	return c.Secret != ""
}

type ExportConfig struct {
	Dir        string
	Debounce   time.Duration
	Formats    []string
	S3Bucket   string
	S3Prefix   string
	S3Endpoint string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether change events are published.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0 && c.Topic != ""
}

type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "5000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_PATH", "data.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_STATS_TTL", "5m")

	v.SetDefault("JWT_ACCESS_EXPIRY", "24h")

	v.SetDefault("EXPORT_DIR", "exports")
	v.SetDefault("EXPORT_DEBOUNCE", "2s")
	v.SetDefault("EXPORT_FORMATS", "csv,xlsx,pdf")
	v.SetDefault("EXPORT_S3_PREFIX", "exports/")

	v.SetDefault("KAFKA_TOPIC", "patient-records")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_MAX_SIZE_MB", 50)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 30)
}

// LoadConfig reads envFile (when present) and the process environment.
// Environment variables win over the file.
func LoadConfig(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	statsTTL, err := time.ParseDuration(v.GetString("REDIS_STATS_TTL"))
	if err != nil {
		statsTTL = 5 * time.Minute
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 24 * time.Hour
	}

	debounce, err := time.ParseDuration(v.GetString("EXPORT_DEBOUNCE"))
	if err != nil {
		debounce = 2 * time.Second
	}

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(v.GetString("DB_DRIVER")),
			Path:        v.GetString("DB_PATH"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			TimeZone:    v.GetString("DB_TIMEZONE"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			StatsTTL: statsTTL,
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Export: ExportConfig{
			Dir:        v.GetString("EXPORT_DIR"),
			Debounce:   debounce,
			Formats:    splitList(v.GetString("EXPORT_FORMATS")),
			S3Bucket:   v.GetString("EXPORT_S3_BUCKET"),
			S3Prefix:   v.GetString("EXPORT_S3_PREFIX"),
			S3Endpoint: v.GetString("EXPORT_S3_ENDPOINT"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Log: LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
	}

	return config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
