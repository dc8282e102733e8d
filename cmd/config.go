package cmd

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	HTTPPort string

	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSslMode         string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	JWTSecret string

	// RedisAddr enables the cross-instance live relay when set.
	RedisAddr           string
	RedisChannel        string
	RelayQueueSize      int
	RelayPublishTimeout time.Duration

	FirebaseProjectID       string
	FirebaseCredentialsFile string
	PushEnabled             bool
	PushTimeout             time.Duration

	LiveSendBuffer     int
	LiveAuthTimeout    time.Duration
	LivePongWait       time.Duration
	KeepaliveSchedule  string
	KeepalivePingLimit time.Duration

	LogLevel string
}

// LoadConfig reads .env if present and then the process environment.
func LoadConfig() Config {
	_ = godotenv.Load(".env")

	return Config{
		HTTPPort: cast.ToString(getOrReturnDefault("HTTP_PORT", "8080")),

		DBHost:            cast.ToString(getOrReturnDefault("DB_HOST", "localhost")),
		DBPort:            cast.ToString(getOrReturnDefault("DB_PORT", "5432")),
		DBUser:            cast.ToString(getOrReturnDefault("DB_USER", "postgres")),
		DBPassword:        cast.ToString(getOrReturnDefault("DB_PASSWORD", "")),
		DBName:            cast.ToString(getOrReturnDefault("DB_NAME", "cargo")),
		DBSslMode:         cast.ToString(getOrReturnDefault("DB_SSLMODE", "disable")),
		DBMaxOpenConns:    cast.ToInt(getOrReturnDefault("DB_MAX_OPEN_CONNS", 25)),
		DBMaxIdleConns:    cast.ToInt(getOrReturnDefault("DB_MAX_IDLE_CONNS", 5)),
		DBConnMaxLifetime: cast.ToDuration(getOrReturnDefault("DB_CONN_MAX_LIFETIME", "30m")),

		JWTSecret: cast.ToString(getOrReturnDefault("JWT_SECRET", "")),

		RedisAddr:           cast.ToString(getOrReturnDefault("REDIS_ADDR", "")),
		RedisChannel:        cast.ToString(getOrReturnDefault("REDIS_CHANNEL", "cargo:live")),
		RelayQueueSize:      cast.ToInt(getOrReturnDefault("RELAY_QUEUE_SIZE", 256)),
		RelayPublishTimeout: cast.ToDuration(getOrReturnDefault("RELAY_PUBLISH_TIMEOUT", "2s")),

		FirebaseProjectID:       cast.ToString(getOrReturnDefault("FIREBASE_PROJECT_ID", "")),
		FirebaseCredentialsFile: cast.ToString(getOrReturnDefault("FIREBASE_CREDENTIALS_FILE", "")),
		PushEnabled:             cast.ToBool(getOrReturnDefault("PUSH_ENABLED", false)),
		PushTimeout:             cast.ToDuration(getOrReturnDefault("PUSH_TIMEOUT", "10s")),

		LiveSendBuffer:     cast.ToInt(getOrReturnDefault("LIVE_SEND_BUFFER", 16)),
		LiveAuthTimeout:    cast.ToDuration(getOrReturnDefault("LIVE_AUTH_TIMEOUT", "5s")),
		LivePongWait:       cast.ToDuration(getOrReturnDefault("LIVE_PONG_WAIT", "90s")),
		KeepaliveSchedule:  cast.ToString(getOrReturnDefault("KEEPALIVE_SCHEDULE", "*/30 * * * * *")),
		KeepalivePingLimit: cast.ToDuration(getOrReturnDefault("KEEPALIVE_PING_TIMEOUT", "10s")),

		LogLevel: cast.ToString(getOrReturnDefault("LOG_LEVEL", "info")),
	}
}

func (c Config) Validate() error {
	var errSecret, errPort error
	if c.JWTSecret == "" {
		errSecret = errors.New("JWT_SECRET is required")
	}
	if c.HTTPPort == "" {
		errPort = errors.New("HTTP_PORT is required")
	}
	return errors.Join(errSecret, errPort)
}

func getOrReturnDefault(key string, defaultValue any) any {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
