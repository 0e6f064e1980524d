package service

import (
	"context"
	"errors"
	"fmt"

	"taskmanager-be/internal/jwt"
	"taskmanager-be/internal/models"
	"taskmanager-be/internal/password"
	"taskmanager-be/internal/repository"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// TokenIssuer signs tokens for authenticated users
type TokenIssuer interface {
	GenerateToken(userID, email string) (string, error)
}

var _ TokenIssuer = (*jwt.JWTService)(nil)

type authService struct {
	userRepo repository.UserRepository
	hasher   password.Hasher
	tokens   TokenIssuer

	// dummyDigest is compared against when the email is unknown so that
	// both failure paths cost one bcrypt comparison.
	dummyDigest string
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, hasher password.Hasher, tokens TokenIssuer) (AuthService, error) {
	dummy, err := hasher.Hash("taskmanager-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy digest: %w", err)
	}
	return &authService{
		userRepo:    userRepo,
		hasher:      hasher,
		tokens:      tokens,
		dummyDigest: dummy,
	}, nil
}

// Register creates a new user account
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error) {
	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, req.Name, req.Email, hashedPassword)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

// Login authenticates a user and returns a signed token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		s.hasher.Verify(req.Password, s.dummyDigest)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.LoginResponse{Token: token}, nil
}
