package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// EnvConfig holds overrides read from the environment.
type EnvConfig struct {
	LogLevel string `env:"TUICARDS_LOG_LEVEL" env-default:""`
	LogFile  string `env:"TUICARDS_LOG_FILE"  env-default:""`
	DBPath   string `env:"TUICARDS_DB"        env-default:""`
}

// LoadEnv reads EnvConfig, loading any .env files first. Missing .env files
// are ignored.
func LoadEnv(dotenvFiles ...string) (EnvConfig, error) {
	_ = godotenv.Load(dotenvFiles...)
	var cfg EnvConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// ResolveDBPath resolves the database path, preferring the environment.
func (e EnvConfig) ResolveDBPath() string {
	if e.DBPath != "" {
		return e.DBPath
	}
	return DefaultDBPath()
}
