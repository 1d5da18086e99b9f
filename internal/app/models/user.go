package models

import "time"

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"` // hashed, never serialized
	Name      string    `json:"name" db:"name"`
	StudentID string    `json:"studentId" db:"student_id"`
	Phone     string    `json:"phone" db:"phone"`
	RoleType  RoleType  `json:"role" db:"role"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
