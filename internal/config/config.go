package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config defines application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Generate  GenerateConfig  `yaml:"generate"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`
}

type TransportConfig struct {
	Mode string `yaml:"mode" validate:"oneof=cli stdio http"`
}

// DBConfig locates the run store. An empty path disables persistence.
type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	Path  string `yaml:"path"`
}

// GenerateConfig holds defaults for CLI generation. A zero Sequences and
// unset optional fields take the generator's own defaults.
type GenerateConfig struct {
	Generator          string   `yaml:"generator" validate:"required"`
	Sequences          int      `yaml:"sequences" validate:"gte=0"`
	Variants           *int     `yaml:"variants" validate:"omitempty,gte=0"`
	Anomalies          *int     `yaml:"anomalies" validate:"omitempty,gte=0"`
	AnomalyProbability *float64 `yaml:"anomaly_probability" validate:"omitempty,gte=0,lte=1"`
	Seed               uint64   `yaml:"seed"`
	OutDir             string   `yaml:"out_dir" validate:"required"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "cli",
		},
		DB: DBConfig{
			Path: "auditsynth.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Generate: GenerateConfig{
			Generator: "enhanced",
			OutDir:    "out",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("AUDITSYNTH_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("AUDITSYNTH_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("AUDITSYNTH_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid AUDITSYNTH_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("AUDITSYNTH_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath, ok := os.LookupEnv("AUDITSYNTH_DB_PATH"); ok {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("AUDITSYNTH_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("AUDITSYNTH_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if gen := os.Getenv("AUDITSYNTH_GENERATOR"); gen != "" {
		cfg.Generate.Generator = gen
	}
	if out := os.Getenv("AUDITSYNTH_OUT_DIR"); out != "" {
		cfg.Generate.OutDir = out
	}
	if seedStr := os.Getenv("AUDITSYNTH_SEED"); seedStr != "" {
		seed, err := strconv.ParseUint(seedStr, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid AUDITSYNTH_SEED: %w", err)
		}
		cfg.Generate.Seed = seed
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
