package config

// Config holds the configuration of the application
// Use config.LoadConfig to create a new instance
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// MaxRequestSize is the maximum request body size in bytes
	MaxRequestSize int64 `mapstructure:"max_request_size"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}
