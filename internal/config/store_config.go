package config

import "path/filepath"

const (
	tokenStoreVar    = "TOKEN_STORE"
	tokenFileVar     = "TOKEN_FILE"
	redisAddrVar     = "REDIS_ADDR"
	redisPasswordVar = "REDIS_PASSWORD"
	redisDBVar       = "REDIS_DB"
	redisPrefixVar   = "REDIS_PREFIX"
	sqliteDSNVar     = "SQLITE_DSN"
)

type Store struct {
	env EnvVars
}

var _ StoreConfig = Store{}

// GetTokenStoreDriver is one of memory, file, redis or sqlite.
func (Store) GetTokenStoreDriver() string {
	return GetEnv(tokenStoreVar, "file")
}

func (s Store) GetTokenFile() string {
	return GetEnv(tokenFileVar, filepath.Join(s.env.GetDataFolder(), "tokens.json"))
}

func (Store) GetRedisAddr() string {
	return GetEnv(redisAddrVar, "localhost:6379")
}

func (Store) GetRedisPassword() string {
	return GetEnv(redisPasswordVar, "")
}

func (Store) GetRedisDB() int {
	return GetEnvInt(redisDBVar, 0)
}

func (Store) GetRedisPrefix() string {
	return GetEnv(redisPrefixVar, "nightlife:session:")
}

func (s Store) GetSQLiteDSN() string {
	return GetEnv(sqliteDSNVar, filepath.Join(s.env.GetDataFolder(), "session.db"))
}
