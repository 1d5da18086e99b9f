package models

import "time"

// Club represents a startup club
type Club struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	LogoPath    *string   `json:"logoPath,omitempty" db:"logo_path"`
	Phase       ClubPhase `json:"phase" db:"phase"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Members []*ClubMember `json:"members,omitempty"`
}

// ClubMember links a user to a club with a role.
// The (club, user) pair is unique; removal is a hard delete so the row
// intentionally has no activity flag.
type ClubMember struct {
	ID       int64      `json:"id" db:"id"`
	ClubID   int64      `json:"clubId" db:"club_id"`
	UserID   int64      `json:"userId" db:"user_id"`
	Role     MemberRole `json:"role" db:"role"`
	JoinedAt time.Time  `json:"joinedAt" db:"joined_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}
