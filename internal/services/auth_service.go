package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"crm/internal/domain"
	applog "crm/internal/log"
	"crm/internal/repos"
	"crm/internal/validate"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users   *repos.UserRepo
	Tokens  *TokenService
	Cost    int
	Timeout time.Duration
}

type RegisterInput struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name, ok := validate.Name(in.Name)
	if !ok {
		return nil, domain.Invalid("name is required (max 60 characters)")
	}
	surname, ok := validate.Name(in.Surname)
	if !ok {
		return nil, domain.Invalid("surname is required (max 60 characters)")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		return nil, domain.Invalid("enter a valid email")
	}
	if !validate.Password(in.Password) {
		return nil, domain.Invalid("password must be 8-64 characters with upper, lower, digit and symbol")
	}

	cost := s.Cost
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		return nil, fault("auth.register.hash", err, nil)
	}

	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	u := &domain.User{ID: uuid.NewString(), Name: name, Surname: surname, Email: strings.ToLower(email), Hash: string(h)}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, fault("auth.register", err, map[string]any{"email": email})
	}
	return u, nil
}

// Authenticate checks email and password and returns a signed credential.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, error) {
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	u, err := s.Users.ByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", fault("auth.login", err, nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			applog.Error(nil, "auth.login.compare", err, map[string]any{"user_id": u.ID})
		}
		return "", domain.ErrBadPassword
	}
	tok, err := s.Tokens.Issue(u.Identity())
	if err != nil {
		return "", fault("auth.token.issue", err, nil)
	}
	return tok, nil
}

// CurrentUser resolves a bearer credential to the acting identity.
func (s *AuthService) CurrentUser(token string) (domain.Identity, error) {
	return s.Tokens.Verify(token)
}
