package customer

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"falcon-storefront/internal/domain"
	tokenrepo "falcon-storefront/internal/repository/token"
)

type tokenMeta struct {
	UserID    string
	Kind      string
	ExpiresAt time.Time
}

type tokenManager struct {
	repo tokenrepo.Repository
}

func newTokenManager(repo tokenrepo.Repository) *tokenManager {
	return &tokenManager{repo: repo}
}

// Issue stores a fresh random token; on the unlikely collision it
// regenerates, up to five times.
func (m *tokenManager) Issue(ctx context.Context, userID, kind string, ttl time.Duration) (string, error) {
	expiresAt := time.Now().Add(ttl)
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		err = m.repo.Create(ctx, tokenrepo.Token{
			Token:     token,
			UserID:    userID,
			Kind:      kind,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return "", err
		}
	}
	return "", errors.New("could not issue token")
}

// Validate looks the token up and checks expiry. Expired tokens are removed.
func (m *tokenManager) Validate(ctx context.Context, token string) (tokenMeta, bool) {
	stored, err := m.repo.Get(ctx, token)
	if err != nil {
		return tokenMeta{}, false
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = m.repo.Delete(ctx, token)
		return tokenMeta{}, false
	}
	return tokenMeta{
		UserID:    stored.UserID,
		Kind:      stored.Kind,
		ExpiresAt: stored.ExpiresAt,
	}, true
}

// Revoke removes the token; revoking an unknown token is not an error.
func (m *tokenManager) Revoke(ctx context.Context, token string) error {
	err := m.repo.Delete(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// RevokeAll removes every token of the given kind for the user.
func (m *tokenManager) RevokeAll(ctx context.Context, userID, kind string) error {
	return m.repo.DeleteByUser(ctx, userID, kind)
}

func randomToken() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf[:]), nil
}
