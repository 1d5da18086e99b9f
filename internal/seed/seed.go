package seed

import (
	"context"
	"errors"

	"github.com/sanghoon/clubhub/internal/app/models"
	"github.com/sanghoon/clubhub/internal/app/repositories"
	"github.com/sanghoon/clubhub/internal/pkg/apperrors"
	"github.com/sanghoon/clubhub/internal/pkg/auth"
	"github.com/sanghoon/clubhub/internal/pkg/logger"
)

// seedPassword is shared by all development accounts.
const seedPassword = "password123"

// Seeder inserts development data. Seeding is idempotent: existing rows
// are reused and a previously soft-deleted seed club is restored through
// the unfiltered lookup.
type Seeder struct {
	repos *repositories.Repositories
}

// NewSeeder creates a new Seeder
func NewSeeder(repos *repositories.Repositories) *Seeder {
	return &Seeder{repos: repos}
}

// Run populates the database with development accounts and clubs.
func (s *Seeder) Run(ctx context.Context) error {
	hashed, err := auth.HashPassword(seedPassword)
	if err != nil {
		return err
	}

	admin, err := s.ensureUser(ctx, &models.User{
		Email:     "admin@clubhub.local",
		Password:  hashed,
		Name:      "Admin",
		StudentID: "00000000",
		RoleType:  models.RoleAdmin,
	})
	if err != nil {
		return err
	}

	leader, err := s.ensureUser(ctx, &models.User{
		Email:     "leader@clubhub.local",
		Password:  hashed,
		Name:      "Lee Jiwon",
		StudentID: "20200001",
		RoleType:  models.RoleStudent,
	})
	if err != nil {
		return err
	}

	student, err := s.ensureUser(ctx, &models.User{
		Email:     "student@clubhub.local",
		Password:  hashed,
		Name:      "Kim Minji",
		StudentID: "20210099",
		RoleType:  models.RoleStudent,
	})
	if err != nil {
		return err
	}

	rocket, err := s.ensureClub(ctx, &models.Club{
		Name:        "Rocket Club",
		Description: "Student startup building reusable model rockets",
		Phase:       models.PhaseOperating,
	})
	if err != nil {
		return err
	}

	if _, err := s.ensureClub(ctx, &models.Club{
		Name:        "Drone Society",
		Description: "Aerial imaging and delivery experiments",
		Phase:       models.PhaseRecruiting,
	}); err != nil {
		return err
	}

	if err := s.ensureMember(ctx, rocket.ID, leader.ID, models.MemberRoleLeader); err != nil {
		return err
	}
	if err := s.ensureMember(ctx, rocket.ID, student.ID, models.MemberRoleMember); err != nil {
		return err
	}

	logger.Info().Int64("adminID", admin.ID).Msg("Seed data ready")
	return nil
}

func (s *Seeder) ensureUser(ctx context.Context, user *models.User) (*models.User, error) {
	existing, err := s.repos.UserRepository.GetByEmail(ctx, user.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	if err := s.repos.UserRepository.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.Info().Str("email", user.Email).Msg("Seeded user")
	return user, nil
}

func (s *Seeder) ensureClub(ctx context.Context, club *models.Club) (*models.Club, error) {
	existing, err := s.repos.ClubRepository.GetByNameAny(ctx, club.Name)
	if err == nil {
		if !existing.IsActive {
			if err := s.repos.ClubRepository.Restore(ctx, existing.ID); err != nil {
				return nil, err
			}
			existing.IsActive = true
			logger.Info().Str("name", existing.Name).Msg("Restored soft-deleted seed club")
		}
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrClubNotFound) {
		return nil, err
	}

	if err := s.repos.ClubRepository.Create(ctx, club); err != nil {
		return nil, err
	}
	logger.Info().Str("name", club.Name).Msg("Seeded club")
	return club, nil
}

func (s *Seeder) ensureMember(ctx context.Context, clubID, userID int64, role models.MemberRole) error {
	member := &models.ClubMember{ClubID: clubID, UserID: userID, Role: role}
	err := s.repos.ClubRepository.AddMember(ctx, member, role == models.MemberRoleLeader)
	if err != nil && !errors.Is(err, apperrors.ErrMembershipExists) {
		return err
	}
	return nil
}
