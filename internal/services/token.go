package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"crm/internal/domain"
	applog "crm/internal/log"
)

type claims struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 credentials with a secret handed in
// at startup.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy that reads time from fn.
func (s *TokenService) WithClock(fn func() time.Time) *TokenService {
	cp := *s
	cp.now = fn
	return &cp
}

func (s *TokenService) Issue(id domain.Identity) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("token: empty signing secret")
	}
	now := s.now()
	c := claims{
		ID:      id.ID,
		Email:   id.Email,
		Name:    id.Name,
		Surname: id.Surname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// Verify returns the identity embedded in token. Every failure collapses to
// ErrInvalidCredential; the parser's reason is only logged.
func (s *TokenService) Verify(token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.ErrInvalidCredential
	}
	var c claims
	_, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		applog.Security(nil, "auth.token.invalid", map[string]any{"reason": err.Error()})
		return domain.Identity{}, domain.ErrInvalidCredential
	}
	if c.ID == "" {
		applog.Security(nil, "auth.token.invalid", map[string]any{"reason": "missing id claim"})
		return domain.Identity{}, domain.ErrInvalidCredential
	}
	return domain.Identity{ID: c.ID, Email: c.Email, Name: c.Name, Surname: c.Surname}, nil
}
