package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Rollover RolloverConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// RolloverConfig holds the knobs for the daily work-entry rollover batch.
// CivilOffsetMinutes fixes the calendar the batch operates on (+05:30 by
// default), independent of the server's own timezone.
type RolloverConfig struct {
	CivilOffsetMinutes int
	TriggerHour        int
	MaxDaysBack        int
	MaxDaysToProcess   int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	// It's okay if the config file is not found, we'll use environment variables
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks for fatal configuration errors before any batch logic runs.
func (c *Config) Validate() error {
	if c.MongoDB.URI == "" {
		return errors.New("missing MongoDB URI")
	}
	if c.MongoDB.Database == "" {
		return errors.New("missing MongoDB database name")
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "workpulse")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("LogLevel", "info")
	viper.SetDefault("Rollover.CivilOffsetMinutes", 330) // +05:30
	viper.SetDefault("Rollover.TriggerHour", 0)
	viper.SetDefault("Rollover.MaxDaysBack", 30)
	viper.SetDefault("Rollover.MaxDaysToProcess", 30)
}
