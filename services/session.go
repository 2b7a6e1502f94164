package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/social-feed-app/social-feed-backend/models"
)

const sessionTTL = 24 * time.Hour

var ErrInvalidSession = errors.New("invalid session token")

type sessionClaims struct {
	DisplayName string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// SessionManager mints and parses the stateless session tokens handed out
// after the identity provider has verified a login. The token only carries
// the identity snapshot; it grants nothing the provider did not already
// confirm.
type SessionManager struct {
	secret []byte
}

func NewSessionManager(secret string) *SessionManager {
	return &SessionManager{secret: []byte(secret)}
}

func (m *SessionManager) Issue(identity models.Identity) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		DisplayName: identity.DisplayName,
		Email:       identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *SessionManager) Parse(tokenString string) (models.Identity, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return models.Identity{}, ErrInvalidSession
	}

	return models.Identity{
		ID:          claims.Subject,
		DisplayName: claims.DisplayName,
		Email:       claims.Email,
	}, nil
}
