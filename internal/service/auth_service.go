package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"account-api/internal/repository"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAuthDisabled indicates no signing secret is configured.
	ErrAuthDisabled = errors.New("authentication is not configured")
)

// AuthService authenticates users and issues HS256 bearer tokens.
type AuthService interface {
	Enabled() bool
	Login(ctx context.Context, email, password string) (string, error)
	Verify(token string) (int64, error)
}

type authService struct {
	users  repository.UserRepository
	creds  repository.CredentialRepository
	secret string
	ttl    time.Duration
}

func NewAuthService(users repository.UserRepository, creds repository.CredentialRepository, secret string, ttl time.Duration) AuthService {
	return &authService{
		users:  users,
		creds:  creds,
		secret: strings.TrimSpace(secret),
		ttl:    ttl,
	}
}

func (s *authService) Enabled() bool {
	return s.secret != ""
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	if !s.Enabled() {
		return "", ErrAuthDisabled
	}

	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	cred, err := s.creds.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *authService) Verify(tokenStr string) (int64, error) {
	if !s.Enabled() {
		return 0, ErrAuthDisabled
	}

	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.secret), nil
	})
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return 0, err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, errors.New("invalid token subject")
	}
	return userID, nil
}
