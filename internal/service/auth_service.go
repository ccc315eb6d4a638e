package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"store_rating/internal/logger"
	"store_rating/internal/metrics"
	"store_rating/internal/model"
	"store_rating/internal/repository"
	"store_rating/internal/utils"
)

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.UserDetail, string, error)
	Profile(ctx context.Context, userID int) (*model.UserDetail, error)
	UpdatePassword(ctx context.Context, userID int, currentPassword, newPassword string) error
	IsActive(ctx context.Context, userID int) (bool, error)
}

type authService struct {
	userRepo          repository.UserRepository
	jwtUtil           *utils.JWTUtil
	initialAdminEmail string
	metrics           *metrics.Metrics
	log               *logger.Logger
}

// NewAuthService creates a new AuthService. Registering with initialAdminEmail yields an admin account.
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, initialAdminEmail string, m *metrics.Metrics, log *logger.Logger) AuthService {
	return &authService{
		userRepo:          userRepo,
		jwtUtil:           jwtUtil,
		initialAdminEmail: normalizeEmail(initialAdminEmail),
		metrics:           m,
		log:               log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account and issues a token for it
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	email := normalizeEmail(req.Email)
	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	userRole := model.RoleUser
	if s.initialAdminEmail != "" && email == s.initialAdminEmail {
		userRole = model.RoleAdmin
		s.log.Info("user is being registered as admin via INITIAL_ADMIN_EMAIL", "email", email)
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		Address:      strings.TrimSpace(req.Address),
		Role:         userRole,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrUserAlreadyExists
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		s.log.Error("user created, but failed to generate token", "user_id", user.ID, "error", err)
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}
	return user, token, nil
}

// verifyCredentials returns the active user matching email and password
func (s *authService) verifyCredentials(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates an active user and returns a JWT token
func (s *authService) Login(ctx context.Context, email, password string) (*model.UserDetail, string, error) {
	user, err := s.verifyCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.metrics.LoginAttempt("rejected")
		}
		return nil, "", err
	}

	detail, err := s.userRepo.FindDetailByID(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load user detail: %w", err)
	}
	if detail == nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	s.metrics.LoginAttempt("success")
	return detail, token, nil
}

// Profile returns the caller's account with their store summary
func (s *authService) Profile(ctx context.Context, userID int) (*model.UserDetail, error) {
	detail, err := s.userRepo.FindDetailByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if detail == nil || !detail.IsActive {
		return nil, ErrUserNotFound
	}
	return detail, nil
}

// UpdatePassword replaces the caller's password after checking the current one
func (s *authService) UpdatePassword(ctx context.Context, userID int, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !user.IsActive {
		return ErrUserNotFound
	}
	if !utils.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return ErrCurrentPasswordIncorrect
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password in repository: %w", err)
	}
	return nil
}

// IsActive reports whether the account still exists and is active
func (s *authService) IsActive(ctx context.Context, userID int) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check account status: %w", err)
	}
	return user != nil && user.IsActive, nil
}
