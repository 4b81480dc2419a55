package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"shortly/internal/jwt"
	"shortly/internal/models"
)

// AdminSubject is the identity carried by every session token
const AdminSubject = "admin"

var (
	ErrInvalidCredentials = errors.New("invalid password")
	ErrLoginDisabled      = errors.New("login is disabled: no admin password configured")
)

type AuthService interface {
	Login(req *models.LoginRequest) (*models.AuthResponse, error)
}

type authService struct {
	passwordHash []byte
	jwtService   *jwt.JWTService
}

// NewAuthService hashes adminPassword once so it is never held in plain text.
// An empty password disables login.
func NewAuthService(adminPassword string, jwtService *jwt.JWTService) (AuthService, error) {
	s := &authService{jwtService: jwtService}
	if adminPassword == "" {
		return s, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	s.passwordHash = hash

	return s, nil
}

func (s *authService) Login(req *models.LoginRequest) (*models.AuthResponse, error) {
	if s.passwordHash == nil {
		return nil, ErrLoginDisabled
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtService.GenerateToken(AdminSubject)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AuthResponse{
		Subject:   AdminSubject,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
