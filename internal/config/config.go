// Package config loads server configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Bedrock    BedrockConfig    `yaml:"bedrock"`
	Redis      RedisConfig      `yaml:"redis"`
	Storage    StorageConfig    `yaml:"storage"`
	Simulation SimulationConfig `yaml:"simulation"`
	LogLevel   string           `yaml:"log_level"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BedrockConfig holds AWS Bedrock settings for the oracle and embeddings.
// When Enabled is false the server runs entirely offline on the mock
// oracle and lexical similarity.
type BedrockConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Region       string `yaml:"region"`
	ModelID      string `yaml:"model_id"`
	EmbedModelID string `yaml:"embed_model_id"`
}

// RedisConfig holds the embedding cache settings. An empty Addr disables
// caching.
type RedisConfig struct {
	Addr       string `yaml:"addr"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// StorageConfig holds run-history persistence settings. An empty
// DatabaseURL disables history.
type StorageConfig struct {
	DatabaseURL string `yaml:"database_url"`
}

// SimulationConfig holds tunables for the decision pipeline.
type SimulationConfig struct {
	MaxSampleSize int     `yaml:"max_sample_size"`
	Temperature   float64 `yaml:"temperature"`
	MaxTokens     int     `yaml:"max_tokens"`
}

// Load reads configuration from path and applies defaults. A missing file
// is not an error; defaults apply.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Bedrock.Region == "" {
		cfg.Bedrock.Region = "us-east-1"
	}
	if cfg.Redis.TTLSeconds == 0 {
		cfg.Redis.TTLSeconds = 3600
	}
	if cfg.Simulation.MaxSampleSize == 0 {
		cfg.Simulation.MaxSampleSize = 100
	}
	if cfg.Simulation.Temperature == 0 {
		cfg.Simulation.Temperature = 0.7
	}
	if cfg.Simulation.MaxTokens == 0 {
		cfg.Simulation.MaxTokens = 1024
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from path, then overrides with
// environment variables. A .env file is loaded first if present.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("BEDROCK_ENABLED"); v != "" {
		cfg.Bedrock.Enabled = v == "true" || v == "1"
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		cfg.Bedrock.Region = region
	}
	if model := os.Getenv("BEDROCK_MODEL_ID"); model != "" {
		cfg.Bedrock.ModelID = model
	}
	if model := os.Getenv("BEDROCK_EMBED_MODEL_ID"); model != "" {
		cfg.Bedrock.EmbedModelID = model
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.Storage.DatabaseURL = dsn
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	return cfg, nil
}
