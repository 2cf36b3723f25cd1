package config

import "time"

const (
	mockPortVar      = "MOCK_API_PORT"
	mockJWTSecretVar = "MOCK_JWT_SECRET"
)

type MockAPIConfig interface {
	GetMockPort() string
	GetMockJWTSecret() string
	GetMockAccessTokenExpiry() time.Duration
	GetMockRefreshTokenExpiry() time.Duration
	GetMockRefreshTokenLength() int
	GetMockRequireCSRF() bool
}

type MockAPI struct{}

var _ MockAPIConfig = MockAPI{}

func (MockAPI) GetMockPort() string {
	return ":" + GetEnv(mockPortVar, "8000")
}

func (MockAPI) GetMockJWTSecret() string {
	return GetEnv(mockJWTSecretVar, "nightlife-dev-secret")
}

// Short on purpose so the refresh path is exercised during development.
func (MockAPI) GetMockAccessTokenExpiry() time.Duration {
	return GetEnvDuration("MOCK_ACCESS_TOKEN_EXPIRY", 5*time.Minute)
}

func (MockAPI) GetMockRefreshTokenExpiry() time.Duration {
	return 7 * 24 * time.Hour // 7 days
}

func (MockAPI) GetMockRefreshTokenLength() int {
	return 32 // 32 bytes = 256 bits
}

func (MockAPI) GetMockRequireCSRF() bool {
	return GetEnv("MOCK_REQUIRE_CSRF", "true") == "true"
}
