package config

import (
	"os"
	"strconv"
)

// Config is built once at process start and handed down read-only; nothing
// reads the environment after LoadEnv returns.
type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Decoder  DecoderConfig
	Mailer   MailerConfig
	Planner  PlannerConfig
	Notify   NotifyConfig
}

type ServerConfig struct {
	AppEnv   string
	HTTPPort string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DecoderConfig struct {
	BaseURL string
}

type MailerConfig struct {
	Endpoint string
	APIKey   string
	Sender   string
}

type PlannerConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type NotifyConfig struct {
	Recipient       string
	HorizonDays     int
	WorkerEnabled   bool
	IntervalMinutes int
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:   getEnv("APP_ENV", "dev"),
			HTTPPort: getEnv("HTTP_PORT", ":8080"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "pantry"),
			Password:        getEnv("POSTGRES_PASSWORD", "pantry"),
			DBName:          getEnv("POSTGRES_DB", "pantry"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Decoder: DecoderConfig{
			BaseURL: getEnv("QR_DECODER_URL", ""),
		},
		Mailer: MailerConfig{
			Endpoint: getEnv("MAILER_ENDPOINT", ""),
			APIKey:   getEnv("MAILER_API_KEY", ""),
			Sender:   getEnv("MAILER_SENDER", "pantry@localhost"),
		},
		Planner: PlannerConfig{
			APIKey:  getEnv("PLANNER_API_KEY", ""),
			BaseURL: getEnv("PLANNER_BASE_URL", ""),
			Model:   getEnv("PLANNER_MODEL", ""),
		},
		Notify: NotifyConfig{
			Recipient:       getEnv("NOTIFY_RECIPIENT", ""),
			HorizonDays:     getEnvInt("NOTIFY_HORIZON_DAYS", 3),
			WorkerEnabled:   getEnvBool("NOTIFY_WORKER_ENABLED", false),
			IntervalMinutes: getEnvInt("NOTIFY_INTERVAL_MINUTES", 1440),
		},
	}
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

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
