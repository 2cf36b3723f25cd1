package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	appNameVar   = "APP_NAME"
	envVar       = "ENV"
	logLevelVar  = "LOG_LEVEL"
	folderEnvVar = "FOLDER"
)

// Environment names accepted in ENV.
const (
	EnvDevelopment = "DEV"
	EnvProduction  = "PROD"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Nightlife")
}

// GetEnv returns the normalised runtime environment, DEV unless told otherwise.
// "production" and "prod" are accepted as aliases for PROD.
func (EnvVars) GetEnv() string {
	return normaliseEnv(os.Getenv(envVar))
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

func (EnvVars) GetDataFolder() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return GetEnv(folderEnvVar, "./.nightlife")
	}
	return GetEnv(folderEnvVar, filepath.Join(home, ".nightlife"))
}

func normaliseEnv(env string) string {
	switch strings.ToUpper(strings.TrimSpace(env)) {
	case "PROD", "PRODUCTION":
		return EnvProduction
	case "":
		return EnvDevelopment
	default:
		return strings.ToUpper(strings.TrimSpace(env))
	}
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvInt(envVar string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}

// GetEnvDuration accepts Go duration strings ("15s", "500ms").
func GetEnvDuration(envVar string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(envVar))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
