package dto

import (
	"time"

	"github.com/sanghoon/clubhub/internal/app/models"
)

// CreateClubRequest represents the payload for creating a club. It binds
// from JSON or from the fields of a multipart form carrying a logo.
type CreateClubRequest struct {
	Name        string           `json:"name" form:"name" binding:"required"`
	Description string           `json:"description" form:"description"`
	Phase       models.ClubPhase `json:"phase" form:"phase" binding:"omitempty,oneof=RECRUITING SELECTED OPERATING COMPLETED"`
}

// UpdateClubRequest represents a partial club update. Only non-nil fields
// are applied.
type UpdateClubRequest struct {
	Name        *string           `json:"name" form:"name"`
	Description *string           `json:"description" form:"description"`
	Phase       *models.ClubPhase `json:"phase" form:"phase" binding:"omitempty,oneof=RECRUITING SELECTED OPERATING COMPLETED"`
}

// AddMemberRequest represents the payload for adding a club member
type AddMemberRequest struct {
	UserID int64             `json:"userId" binding:"required,min=1"`
	Role   models.MemberRole `json:"role" binding:"omitempty,oneof=LEADER MEMBER"`
}

// ClubResponse represents a club list item. The member roster is replaced
// by an aggregate count to keep list payloads small.
type ClubResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LogoURL     string    `json:"logoUrl,omitempty"`
	Phase       string    `json:"phase"`
	MemberCount int64     `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ClubMemberResponse represents one roster entry in a club detail
type ClubMemberResponse struct {
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	StudentID string    `json:"studentId"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// ClubDetailResponse represents full club detail including the roster
type ClubDetailResponse struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	LogoURL     string               `json:"logoUrl,omitempty"`
	Phase       string               `json:"phase"`
	Members     []ClubMemberResponse `json:"members"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// ToClubMemberResponse maps a membership row (with its user loaded) to a
// roster entry.
func ToClubMemberResponse(member *models.ClubMember) ClubMemberResponse {
	resp := ClubMemberResponse{
		UserID:   member.UserID,
		Role:     string(member.Role),
		JoinedAt: member.JoinedAt,
	}
	if member.User != nil {
		resp.Name = member.User.Name
		resp.StudentID = member.User.StudentID
		resp.Email = member.User.Email
		resp.Phone = member.User.Phone
	}
	return resp
}
