package config

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// BotToken signs the Mini App handshake verification. The server
	// refuses Telegram logins when it is empty.
	BotToken  string `env:"TELEGRAM_BOT_TOKEN"`
	JWTSecret string `env:"JWT_SECRET"`

	Session  SessionConfig
	InitData InitDataConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type SessionConfig struct {
	TTL        time.Duration `env:"SESSION_TTL,         default=24h"`
	TokenBytes int           `env:"SESSION_TOKEN_BYTES, default=32"`
}

type InitDataConfig struct {
	MaxAge    time.Duration `env:"INITDATA_MAX_AGE,    default=1h"`
	ClockSkew time.Duration `env:"INITDATA_CLOCK_SKEW, default=30s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ordering_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(log zerolog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	return &cfg
}
