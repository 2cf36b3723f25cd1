package refresh

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/go-nightlife-client/internal/config"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var ErrTokenExpired = errors.New("refresh token expired")

// Manager handles refresh token creation, validation, and rotation
type Manager struct {
	repo   Repo
	config config.MockAPIConfig
}

func NewManager(repo Repo, cfg config.MockAPIConfig) *Manager {
	return &Manager{
		repo:   repo,
		config: cfg,
	}
}

// Create generates a new refresh token for userID and stores it
func (m *Manager) Create(userID int64) (string, error) {
	tokenBytes := make([]byte, m.config.GetMockRefreshTokenLength())
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	tokenStr := hex.EncodeToString(tokenBytes)
	if err := m.repo.Upsert(&StoredRefreshToken{
		Token:  tokenStr,
		UserID: userID,
		Iat:    NowTimeFunc(),
	}); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return tokenStr, nil
}

// Validate returns the record for token when it exists and has not expired.
// Expired records are deleted.
func (m *Manager) Validate(token string) (*StoredRefreshToken, error) {
	rt, err := m.repo.Get(token)
	if err != nil {
		return nil, err
	}
	if m.IsExpired(rt) {
		_ = m.repo.Delete(token)
		return nil, ErrTokenExpired
	}
	return rt, nil
}

// Rotate exchanges a valid token for a new one. The old token stops working.
func (m *Manager) Rotate(token string) (*StoredRefreshToken, string, error) {
	rt, err := m.Validate(token)
	if err != nil {
		return nil, "", err
	}
	if err := m.repo.Delete(token); err != nil {
		return nil, "", fmt.Errorf("failed to delete rotated refresh token: %w", err)
	}
	next, err := m.Create(rt.UserID)
	if err != nil {
		return nil, "", err
	}
	return rt, next, nil
}

// Delete removes a refresh token from storage
func (m *Manager) Delete(token string) error {
	return m.repo.Delete(token)
}

// RevokeAll deletes every token issued to userID.
func (m *Manager) RevokeAll(userID int64) error {
	tokens, err := m.repo.ListByUserID(userID)
	if err != nil {
		return err
	}
	for _, rt := range tokens {
		if err := m.repo.Delete(rt.Token); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) IsExpired(rt *StoredRefreshToken) bool {
	return NowTimeFunc().Sub(rt.Iat) > m.config.GetMockRefreshTokenExpiry()
}
