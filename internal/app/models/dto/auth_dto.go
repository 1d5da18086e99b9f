package dto

import (
	"time"

	"github.com/sanghoon/clubhub/internal/app/models"
)

// RegisterRequest represents a self-service signup request. LEADER is not
// a self-assignable role; it is only granted through club membership.
type RegisterRequest struct {
	Email     string          `json:"email" binding:"required,email"`
	Password  string          `json:"password" binding:"required,min=8"`
	Name      string          `json:"name" binding:"required"`
	StudentID string          `json:"studentId" binding:"required"`
	Phone     string          `json:"phone"`
	Role      models.RoleType `json:"role" binding:"omitempty,oneof=STUDENT ADMIN"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse represents a refreshed access token. The refresh token is
// present only when rotation is enabled.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// UserResponse represents a user's public profile
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	StudentID string    `json:"studentId"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse represents a successful login response. Tokens sit at the
// top level beside the profile.
type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

// ToUserResponse maps a user model to its public profile representation.
func ToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		StudentID: user.StudentID,
		Phone:     user.Phone,
		Role:      string(user.RoleType),
		CreatedAt: user.CreatedAt,
	}
}
