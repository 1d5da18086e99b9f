package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sanghoon/clubhub/internal/app/models"
	"github.com/sanghoon/clubhub/internal/app/models/dto"
	"github.com/sanghoon/clubhub/internal/pkg/apperrors"
	"github.com/sanghoon/clubhub/internal/pkg/auth"
	"github.com/sanghoon/clubhub/internal/pkg/logger"
)

// AuthService handles registration, login and token refresh
type AuthService struct {
	userRepo      UserRepository
	tokenRepo     TokenRepository
	jwtService    *auth.JWTService
	rotateRefresh bool
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo UserRepository, tokenRepo TokenRepository, jwtService *auth.JWTService, rotateRefresh bool) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		tokenRepo:     tokenRepo,
		jwtService:    jwtService,
		rotateRefresh: rotateRefresh,
	}
}

// Register creates a new user account. No token is issued; the caller
// logs in separately.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return apperrors.ErrEmailAlreadyExists
	}

	exists, err = s.userRepo.StudentIDExists(ctx, req.StudentID)
	if err != nil {
		return fmt.Errorf("failed to check student id: %w", err)
	}
	if exists {
		return apperrors.ErrStudentIDExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:     req.Email,
		Password:  hashed,
		Name:      req.Name,
		StudentID: req.StudentID,
		Phone:     req.Phone,
		RoleType:  role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	logger.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("User registered")
	return nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken := s.jwtService.GenerateRefreshToken()
	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	logger.Info().Int64("userID", user.ID).Msg("User logged in")

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.ToUserResponse(user),
	}, nil
}

// Refresh exchanges a refresh token for a new access token. When rotation
// is enabled the old refresh token is revoked and a new one is returned.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, err := s.tokenRepo.GetUserIDByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	resp := &dto.TokenResponse{AccessToken: accessToken}

	if s.rotateRefresh {
		if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
			return nil, err
		}
		newRefresh := s.jwtService.GenerateRefreshToken()
		if err := s.tokenRepo.CreateToken(ctx, newRefresh, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
			return nil, err
		}
		resp.RefreshToken = newRefresh
	}

	return resp, nil
}

// Me returns the authenticated caller's public profile.
func (s *AuthService) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("User not found")
		}
		return nil, err
	}

	resp := dto.ToUserResponse(user)
	return &resp, nil
}
