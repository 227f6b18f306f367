package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	// Whitelist maps allowed emails to their role. Login is rejected for
	// anyone outside it regardless of credentials.
	Whitelist map[string]Role

	PasswordMinLength int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig(whitelist map[string]Role) ServiceConfig {
	return ServiceConfig{
		Whitelist:         whitelist,
		PasswordMinLength: 8,
	}
}

// Service provides login and registration for whitelisted operators.
type Service struct {
	userRepo   UserRepository
	jwtService *JWTService
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(userRepo UserRepository, jwtService *JWTService, config ServiceConfig) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
		config:     config,
	}
}

// Register creates a whitelisted user with a bcrypt-hashed password.
// The role always comes from the whitelist, never from the request.
func (s *Service) Register(ctx context.Context, email, password, displayName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	role, ok := s.config.Whitelist[email]
	if !ok {
		return nil, apperror.NewForbidden("email is not authorized")
	}
	if len(password) < s.config.PasswordMinLength {
		return nil, apperror.NewValidation("password is too short").
			WithDetail("minLength", s.config.PasswordMinLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hash password: %w", err))
	}

	user := &User{
		ID:           id.New().String(),
		Email:        email,
		DisplayName:  displayName,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered", "email", email, "role", role)
	return user, nil
}

// Login verifies credentials against the whitelist and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	role, ok := s.config.Whitelist[email]
	if !ok {
		return nil, apperror.NewForbidden("email is not authorized")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			// Same answer as a wrong password.
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warn(ctx, "login failed", "email", email)
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	// The whitelist is authoritative: a role change there takes effect on
	// the next login.
	user.Role = role

	token, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("generate token: %w", err))
	}

	logger.Info(ctx, "user logged in", "email", email, "role", user.Role)
	return &TokenPair{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}
