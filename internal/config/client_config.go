package config

import (
	"strings"
	"time"
)

const (
	apiBaseURLVar     = "API_BASE_URL"
	requestTimeoutVar = "REQUEST_TIMEOUT"
	maxRetriesVar     = "MAX_RETRIES"
)

// DefaultBaseURLs maps each environment to its API endpoint.
var DefaultBaseURLs = map[string]string{
	EnvDevelopment: "http://localhost:8000",
	EnvProduction:  "https://api.nightout.app",
}

// Client holds the session client settings. Base URLs can be replaced per
// environment by a profile file, API_BASE_URL always wins.
type Client struct {
	env      EnvVars
	baseURLs map[string]string
}

var _ ClientConfig = Client{}

// NewClient creates client settings, overriding DefaultBaseURLs with baseURLs.
func NewClient(baseURLs map[string]string) Client {
	urls := make(map[string]string, len(DefaultBaseURLs)+len(baseURLs))
	for env, url := range DefaultBaseURLs {
		urls[env] = url
	}
	for env, url := range baseURLs {
		urls[normaliseEnv(env)] = url
	}
	return Client{baseURLs: urls}
}

func (c Client) GetAPIBaseURL() string {
	if url := GetEnv(apiBaseURLVar, ""); url != "" {
		return strings.TrimRight(url, "/")
	}
	if url, ok := c.baseURLs[c.env.GetEnv()]; ok {
		return strings.TrimRight(url, "/")
	}
	return DefaultBaseURLs[EnvDevelopment]
}

func (Client) GetRequestTimeout() time.Duration {
	return GetEnvDuration(requestTimeoutVar, 15*time.Second)
}

func (Client) GetMaxRetries() int {
	return GetEnvInt(maxRetriesVar, 3)
}

func (Client) GetRetryBackoff() time.Duration {
	return 1 * time.Second
}

func (Client) GetMaxRetryBackoff() time.Duration {
	return 10 * time.Second
}

func (Client) GetRefreshPath() string {
	return "/api/auth/token/refresh/"
}
