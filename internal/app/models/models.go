package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleLeader  RoleType = "LEADER"
	RoleAdmin   RoleType = "ADMIN"
)

// Valid reports whether the role is one of the known roles.
func (r RoleType) Valid() bool {
	switch r {
	case RoleStudent, RoleLeader, RoleAdmin:
		return true
	}
	return false
}

// ClubPhase is a club's lifecycle label. No transition order is enforced;
// any phase may be set to any other by an authorized mutator.
type ClubPhase string

const (
	PhaseRecruiting ClubPhase = "RECRUITING"
	PhaseSelected   ClubPhase = "SELECTED"
	PhaseOperating  ClubPhase = "OPERATING"
	PhaseCompleted  ClubPhase = "COMPLETED"
)

// Valid reports whether the phase is one of the known phases.
func (p ClubPhase) Valid() bool {
	switch p {
	case PhaseRecruiting, PhaseSelected, PhaseOperating, PhaseCompleted:
		return true
	}
	return false
}

// MemberRole defines a user's role within a single club
type MemberRole string

const (
	MemberRoleLeader MemberRole = "LEADER"
	MemberRoleMember MemberRole = "MEMBER"
)

// Valid reports whether the member role is known.
func (r MemberRole) Valid() bool {
	return r == MemberRoleLeader || r == MemberRoleMember
}

// FileCategory classifies an uploaded file
type FileCategory string

const (
	CategoryReceipt     FileCategory = "RECEIPT"
	CategoryReport      FileCategory = "REPORT"
	CategoryInspection  FileCategory = "INSPECTION"
	CategoryAchievement FileCategory = "ACHIEVEMENT"
	CategoryGeneral     FileCategory = "GENERAL"
)

// Valid reports whether the category is one of the known categories.
func (c FileCategory) Valid() bool {
	switch c {
	case CategoryReceipt, CategoryReport, CategoryInspection, CategoryAchievement, CategoryGeneral:
		return true
	}
	return false
}
