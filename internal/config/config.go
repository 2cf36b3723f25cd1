package config

import "time"

type Config interface {
	EnvConfig
	ClientConfig
	StoreConfig
	CorsConfig
	MockAPIConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetDataFolder() string
}

type ClientConfig interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
	GetMaxRetries() int
	GetRetryBackoff() time.Duration
	GetMaxRetryBackoff() time.Duration
	GetRefreshPath() string
}

type StoreConfig interface {
	GetTokenStoreDriver() string
	GetTokenFile() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisPrefix() string
	GetSQLiteDSN() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() []string
	GetAllowedHeaders() []string
}

type mainConfig struct {
	EnvVars
	Client
	Store
	Cors
	MockAPI
}

func New() Config {
	return mainConfig{
		Client: NewClient(nil),
	}
}
