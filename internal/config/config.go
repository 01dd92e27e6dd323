package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the runtime settings. Values come from an optional yaml file
// (CONFIG_PATH) with environment variables taking precedence.
type Config struct {
	Address  string `yaml:"address" env:"ADDRESS" env-default:":8080"`
	DBPath   string `yaml:"db_path" env:"DB_PATH" env-default:"./data/rutin.db"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

// Load reads the configuration from configPath, falling back to environment
// variables only when the path is empty or the file does not exist.
func Load(configPath string) (Config, error) {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("cannot read env: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				return Config{}, fmt.Errorf("cannot read env: %w", err)
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("cannot read config %q: %w", configPath, err)
	}

	return cfg, nil
}
