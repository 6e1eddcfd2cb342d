package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"davrcash/internal/core/apperror"
	appctx "davrcash/internal/core/context"
	"davrcash/internal/core/id"
	"davrcash/pkg/logger"
)

// Service provides authentication logic.
type Service struct {
	userRepo   UserRepository
	jwtService *JWTService
}

// NewService creates a new auth service.
func NewService(userRepo UserRepository, jwtService *JWTService) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, apperror.NewUnauthorized("invalid email or password")
	}

	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn(ctx, "failed login attempt", "email", req.Email)
		return nil, apperror.NewUnauthorized("invalid email or password")
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn(ctx, "update last login failed", "user_id", user.ID.String(), "error", err)
	}

	return &LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// Me returns the profile of the authenticated caller.
func (s *Service) Me(ctx context.Context) (*User, error) {
	userCtx := appctx.GetUser(ctx)
	if userCtx == nil {
		return nil, apperror.NewUnauthorized("authentication required")
	}
	uid, err := id.Parse(userCtx.UserID)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid user id in token")
	}
	user, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, apperror.NewNotFound("user", userCtx.UserID)
	}
	return user, nil
}

// RegisterRequest carries new-user data.
type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a new back-office user. Email uniqueness is checked
// here; the unique index remains the final arbiter under races.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, apperror.NewDuplicate("user", "email", req.Email)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := NewUser(req.Email, hash)
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info(ctx, "user registered", "user_id", user.ID.String(), "email", user.Email)
	return user, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
