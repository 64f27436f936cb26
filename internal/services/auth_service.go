package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/repositories"
	"salon_crm_backend/pkg/utils"
)

// --- Custom Service Errors ---
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// --- AuthService Interface ---
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	Authenticate(token string) (*models.SessionUser, error)
}

type authService struct {
	accounts repositories.AccountRepository
	tokens   *utils.TokenManager
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(accounts repositories.AccountRepository, tokens *utils.TokenManager) AuthService {
	return &authService{accounts: accounts, tokens: tokens}
}

// Login checks the password against the stored bcrypt hash and issues an access token.
func (s *authService) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	email := strings.TrimSpace(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(account.Email, account.Name, account.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return &models.AuthResponse{
		User:        models.SessionUser{Email: account.Email, Name: account.Name, Role: account.Role},
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// Authenticate validates a bearer token and returns the principal it names.
func (s *authService) Authenticate(token string) (*models.SessionUser, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &models.SessionUser{Email: claims.Email, Name: claims.Name, Role: claims.Role}, nil
}
