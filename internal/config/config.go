package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultRunAddress    = "localhost:8080"
	defaultMigrationsDir = "internal/db/migrations"
	defaultRedisStream   = "transaction.events"
	defaultBufferSize    = 256
)

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`
	// RedisAddress пустой адрес отключает пересылку транзакций в Redis.
	RedisAddress     string `env:"REDIS_ADDRESS"`
	RedisStream      string `env:"REDIS_STREAM"`
	StreamBufferSize int    `env:"STREAM_BUFFER_SIZE"`
	SeedData         bool   `env:"SEED_DATA"`
}

// LoadConfig собирает конфигурацию из .env файла (если есть), переменных окружения и флагов.
// Переменные окружения приоритетнее флагов.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %s", err.Error())
	}
	return load(os.Args[1:])
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func load(args []string) (*Config, error) {
	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	if flagsErr := loadFlags(&flagsConfig, args); flagsErr != nil {
		return nil, fmt.Errorf("parse flags: %s", flagsErr.Error())
	}

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not set")
	}
	if conf.StreamBufferSize <= 0 {
		return nil, fmt.Errorf("stream buffer size must be positive, got %d", conf.StreamBufferSize)
	}
	return conf, nil
}

func loadFlags(flagConfig *Config, args []string) error {
	fSet := flag.NewFlagSet("transactions", flag.ContinueOnError)

	fSet.StringVar(&flagConfig.RunAddress, "a", defaultRunAddress, "Run address in format host:port")
	fSet.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	fSet.StringVar(&flagConfig.MigrationsDir, "m", defaultMigrationsDir, "Database migrations directory")
	fSet.StringVar(&flagConfig.RedisAddress, "r", "", "Redis address, empty disables the event relay")
	fSet.StringVar(&flagConfig.RedisStream, "s", defaultRedisStream, "Redis stream for transaction events")
	fSet.IntVar(&flagConfig.StreamBufferSize, "b", defaultBufferSize, "Per-subscriber stream buffer size")
	fSet.BoolVar(&flagConfig.SeedData, "seed", false, "Seed demo risk rules and accounts")

	return fSet.Parse(args) //nolint:wrapcheck
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	bufferSize := envConfig.StreamBufferSize
	if bufferSize == 0 {
		bufferSize = flagsConfig.StreamBufferSize
	}

	return &Config{
		RunAddress:       defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:      defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:    defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		RedisAddress:     defaultIfBlank(envConfig.RedisAddress, flagsConfig.RedisAddress),
		RedisStream:      defaultIfBlank(envConfig.RedisStream, flagsConfig.RedisStream),
		StreamBufferSize: bufferSize,
		SeedData:         envConfig.SeedData || flagsConfig.SeedData,
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
