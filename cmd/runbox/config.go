package main

import (
	"os"

	"runbox/pkg/utils/logger"

	"github.com/joho/godotenv"
)

const (
	defaultHost      = "0.0.0.0"
	defaultPort      = "5000"
	defaultLogLevel  = "debug"
	defaultLogFormat = "console"
)

// AppConfig is the process-wide configuration snapshot, read once at startup.
type AppConfig struct {
	Host   string
	Port   string
	Logger logger.Config
}

// loadAppConfig seeds the environment from an optional .env file in the
// working directory, then reads the settings. A missing .env is not an error.
func loadAppConfig() AppConfig {
	_ = godotenv.Load()

	return AppConfig{
		Host: getenvWithDefault("HOST", defaultHost),
		Port: getenvWithDefault("PORT", defaultPort),
		Logger: logger.Config{
			Level:  getenvWithDefault("LOG_LEVEL", defaultLogLevel),
			Format: getenvWithDefault("LOG_FORMAT", defaultLogFormat),
		},
	}
}

func (c AppConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getenvWithDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
