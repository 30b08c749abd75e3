package config

import (
	"errors"
	"strings"

	"github.com/textveil/textveil/internal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// We're bootstrapping so avoid any imports from other packages
var log = logrus.New()

const (
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 3000
	DefaultMaxRequestSize = 5 << 20
)

// LoadConfig loads the config file and ENV variables into a Config struct.
// The config file is optional; defaults and environment variables are
// sufficient to run the server.
func LoadConfig(configFile string) (*Config, error) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}

	viper.SetConfigType("yaml")

	viper.SetDefault("server.host", DefaultHost)
	viper.SetDefault("server.port", DefaultPort)
	viper.SetDefault("server.max_request_size", DefaultMaxRequestSize)
	viper.SetDefault("log.level", "info")

	viper.SetEnvPrefix("TEXTVEIL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Environment variables take precedence over config file
	loadDotEnv()

	// PORT is honored for parity with the original service deployment
	if err := viper.BindEnv("server.port", "PORT"); err != nil {
		log.Fatalf("Error binding environment variable: %s", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Debug(".env file not found or unable to load")
	}
}

// SetLogLevel sets the log level based on the config file. Defaults to INFO if not set or invalid
func SetLogLevel(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	internal.SetLogLevel(level)
	log.Info("Log level set to: ", level)
}
