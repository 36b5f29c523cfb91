// Package config assembles the application configuration from defaults,
// command line flags, a .env file, and environment variables, with
// environment values taking precedence over flags. The resulting values
// are validated before use.
package config

import (
	"flag"
	"log"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings of the application.
type Config struct {
	RunAddr             string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	ShortURLBase        string        `env:"BASE_URL" validate:"url"`
	LogLevel            string        `env:"LOG_LEVEL" validate:"loglevel"`
	DBFileName          string        `env:"FILE_STORAGE_PATH" validate:"omitempty,filepath"`
	DatabaseDSN         string        `env:"DATABASE_DSN"`
	MigrationsDir       string        `env:"MIGRATIONS_DIR"`
	DBConnectionTimeout time.Duration `env:"DB_CONNECTION_TIMEOUT"`
	SessionRedisAddr    string        `env:"SESSION_REDIS_ADDR"`
	SessionCookieName   string        `env:"SESSION_COOKIE_NAME" validate:"required"`
	SessionTTL          time.Duration `env:"SESSION_TTL" validate:"required"`
}

var defaultConfig = Config{
	RunAddr:             ":8080",
	ShortURLBase:        "http://localhost:8080",
	LogLevel:            "info",
	DBFileName:          "",
	DatabaseDSN:         "",
	MigrationsDir:       "cmd/linkboard/migrations",
	DBConnectionTimeout: 10 * time.Second,
	SessionRedisAddr:    "",
	SessionCookieName:   "linkboard_session",
	SessionTTL:          24 * time.Hour,
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug":   true,
		"info":    true,
		"warning": true,
		"error":   true,
		"fatal":   true,
	}

	return allowedLogLevels[value]
}

func (c *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("filepath", validateFilePath)
	if err != nil {
		return err
	}

	return validate.Struct(c)
}

func applyDefaults(target *Config, defaults Config) {
	*target = defaults
}

// InitOption configures the behavior of New.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing disables command line flag parsing.
// It is mainly useful in tests, where the test binary owns os.Args.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// New builds a validated Config from defaults, flags, .env and environment.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := &Config{}
	applyDefaults(values, defaultConfig)

	if !options.disableFlagsParsing {
		flag.StringVar(&values.RunAddr, "a", values.RunAddr, "address and port to run server")
		flag.StringVar(&values.ShortURLBase, "b", values.ShortURLBase, "base address of the resulting shortened URL")
		flag.StringVar(&values.LogLevel, "l", values.LogLevel, "logger level")
		flag.StringVar(&values.DBFileName, "f", values.DBFileName, "JSON file name with database")
		flag.StringVar(&values.DatabaseDSN, "d", values.DatabaseDSN, "a string with the database connection details")
		flag.StringVar(&values.SessionRedisAddr, "r", values.SessionRedisAddr, "redis address for the session store")
		flag.Parse()
	}

	var valuesFromEnv Config
	if err := env.Parse(&valuesFromEnv); err != nil {
		return nil, err
	}

	mergeFromEnv(values, &valuesFromEnv)

	if err := values.validate(); err != nil {
		return nil, err
	}

	return values, nil
}

func mergeFromEnv(values, fromEnv *Config) {
	if fromEnv.RunAddr != "" {
		values.RunAddr = fromEnv.RunAddr
	}

	if fromEnv.ShortURLBase != "" {
		values.ShortURLBase = fromEnv.ShortURLBase
	}

	if fromEnv.LogLevel != "" {
		values.LogLevel = fromEnv.LogLevel
	}

	if fromEnv.DBFileName != "" {
		values.DBFileName = fromEnv.DBFileName
	}

	if fromEnv.DatabaseDSN != "" {
		values.DatabaseDSN = fromEnv.DatabaseDSN
	}

	if fromEnv.MigrationsDir != "" {
		values.MigrationsDir = fromEnv.MigrationsDir
	}

	if fromEnv.DBConnectionTimeout != 0 {
		values.DBConnectionTimeout = fromEnv.DBConnectionTimeout
	}

	if fromEnv.SessionRedisAddr != "" {
		values.SessionRedisAddr = fromEnv.SessionRedisAddr
	}

	if fromEnv.SessionCookieName != "" {
		values.SessionCookieName = fromEnv.SessionCookieName
	}

	if fromEnv.SessionTTL != 0 {
		values.SessionTTL = fromEnv.SessionTTL
	}
}
