package auth

import (
	"context"
	"errors"
	"time"

	"ygodeck/internal/platform/crypto"
	"ygodeck/internal/user"
)

var ErrUnauthorized = errors.New("unauthorized")

// UserFinder is the slice of the user service login needs.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type Service struct {
	secret string
	ttl    time.Duration
	users  UserFinder
}

func NewService(secret string, ttl time.Duration, users UserFinder) *Service {
	return &Service{secret: secret, ttl: ttl, users: users}
}

type Token struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int    `json:"expiresIn"`
}

// Login checks the credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return Token{}, ErrUnauthorized
	}
	if err != nil {
		return Token{}, err
	}
	if !crypto.VerifyPassword(u.Password, password) {
		return Token{}, ErrUnauthorized
	}

	accessToken, err := crypto.GenerateToken(s.secret, u.ID, u.Role, s.ttl)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: accessToken, TokenType: "Bearer", ExpiresIn: int(s.ttl.Seconds())}, nil
}
