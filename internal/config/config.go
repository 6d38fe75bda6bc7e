// Package config loads application configuration from .env files and
// environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	// DataPath is the base directory for build artifacts; commands resolve
	// relative defaults against it.
	DataPath string

	// MinGroupSamples flags value groups with fewer observations as
	// low-confidence in build diagnostics.
	MinGroupSamples int
	// BuildWorkers caps concurrent per-feature builds. 0 means CPU count.
	BuildWorkers int
	// StrictBuild aborts a batch on the first per-feature failure.
	StrictBuild bool
}

// Load reads configuration from .env files and environment variables.
// The binary directory takes precedence over the working directory so an
// installed binary carries its own defaults.
func Load() (*AppConfig, error) {
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file in working directory, relying on environment variables")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	cfg := &AppConfig{
		DataPath:        dataPath,
		MinGroupSamples: getEnvInt("MIN_GROUP_SAMPLES", 30),
		BuildWorkers:    getEnvInt("BUILD_WORKERS", 0),
		StrictBuild:     getEnvBool("STRICT_BUILD", false),
	}

	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer environment value")
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
