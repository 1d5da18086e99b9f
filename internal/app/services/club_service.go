package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/sanghoon/clubhub/internal/app/models"
	"github.com/sanghoon/clubhub/internal/app/models/dto"
	"github.com/sanghoon/clubhub/internal/app/repositories"
	"github.com/sanghoon/clubhub/internal/pkg/apperrors"
	"github.com/sanghoon/clubhub/internal/pkg/filestorage"
	"github.com/sanghoon/clubhub/internal/pkg/logger"
)

// ClubListParams carries club listing filters and paging.
type ClubListParams struct {
	Name  string
	Phase string
	Page  int
	Size  int
}

// ClubService handles club and membership operations
type ClubService struct {
	clubRepo      ClubRepository
	userRepo      UserRepository
	storage       FileStorage
	maxUploadSize int64
}

// NewClubService creates a new ClubService
func NewClubService(clubRepo ClubRepository, userRepo UserRepository, storage FileStorage, maxUploadSize int64) *ClubService {
	return &ClubService{
		clubRepo:      clubRepo,
		userRepo:      userRepo,
		storage:       storage,
		maxUploadSize: maxUploadSize,
	}
}

// canManage reports whether the caller may mutate the club: ADMIN always,
// otherwise only the club's own LEADER.
func (s *ClubService) canManage(ctx context.Context, clubID, callerID int64, callerRole models.RoleType) error {
	if callerRole == models.RoleAdmin {
		return nil
	}
	isLeader, err := s.clubRepo.IsLeader(ctx, clubID, callerID)
	if err != nil {
		return err
	}
	if !isLeader {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// List returns clubs visible to the caller. A STUDENT sees only clubs
// they belong to; LEADER and ADMIN see all active clubs.
func (s *ClubService) List(ctx context.Context, callerID int64, callerRole models.RoleType, params ClubListParams) (*dto.PageResponse, error) {
	opts := repositories.ClubListOptions{
		NameContains: params.Name,
		Offset:       uint64((params.Page - 1) * params.Size),
		Limit:        params.Size,
	}
	if params.Phase != "" {
		phase := models.ClubPhase(params.Phase)
		if !phase.Valid() {
			return nil, apperrors.NewValidationError("phase: Invalid club phase.")
		}
		opts.Phase = &phase
	}
	if callerRole == models.RoleStudent {
		opts.MemberUserID = &callerID
	}

	clubs, total, err := s.clubRepo.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ClubResponse, 0, len(clubs))
	for _, club := range clubs {
		items = append(items, dto.ClubResponse{
			ID:          club.ID,
			Name:        club.Name,
			Description: club.Description,
			LogoURL:     s.logoURL(club.LogoPath),
			Phase:       string(club.Phase),
			MemberCount: club.MemberCount,
			CreatedAt:   club.CreatedAt,
		})
	}

	return dto.NewPageResponse(items, total, params.Page, params.Size), nil
}

// Get returns full club detail including the member roster.
func (s *ClubService) Get(ctx context.Context, clubID int64) (*dto.ClubDetailResponse, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}

	members, err := s.clubRepo.GetMembers(ctx, clubID)
	if err != nil {
		return nil, err
	}

	return s.toDetail(club, members), nil
}

// Create creates a new club, optionally storing a logo image. Route-level
// authorization restricts this to ADMIN callers.
func (s *ClubService) Create(ctx context.Context, req *dto.CreateClubRequest, logo *multipart.FileHeader) (*dto.ClubDetailResponse, error) {
	club := &models.Club{
		Name:        req.Name,
		Description: req.Description,
		Phase:       req.Phase,
	}

	if logo != nil {
		storedPath, err := s.saveLogo(club.Name, logo)
		if err != nil {
			return nil, err
		}
		club.LogoPath = &storedPath
	}

	if err := s.clubRepo.Create(ctx, club); err != nil {
		if club.LogoPath != nil {
			_ = s.storage.Delete(*club.LogoPath)
		}
		return nil, err
	}

	logger.Info().Int64("clubID", club.ID).Str("name", club.Name).Msg("Club created")
	return s.toDetail(club, nil), nil
}

// Update applies a partial update to a club: any subset of name,
// description, phase and logo. Only ADMIN or the club's LEADER may
// mutate it.
func (s *ClubService) Update(ctx context.Context, clubID, callerID int64, callerRole models.RoleType, req *dto.UpdateClubRequest, logo *multipart.FileHeader) (*dto.ClubDetailResponse, error) {
	if err := s.canManage(ctx, clubID, callerID, callerRole); err != nil {
		return nil, err
	}

	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		club.Name = *req.Name
	}
	if req.Description != nil {
		club.Description = *req.Description
	}
	if req.Phase != nil {
		club.Phase = *req.Phase
	}

	oldLogo := club.LogoPath
	if logo != nil {
		storedPath, err := s.saveLogo(club.Name, logo)
		if err != nil {
			return nil, err
		}
		club.LogoPath = &storedPath
	}

	if err := s.clubRepo.Update(ctx, club); err != nil {
		if logo != nil && club.LogoPath != nil {
			_ = s.storage.Delete(*club.LogoPath)
		}
		return nil, err
	}
	if logo != nil && oldLogo != nil {
		_ = s.storage.Delete(*oldLogo)
	}

	members, err := s.clubRepo.GetMembers(ctx, clubID)
	if err != nil {
		return nil, err
	}
	return s.toDetail(club, members), nil
}

// saveLogo size-checks and stores a logo image, returning its stored path.
func (s *ClubService) saveLogo(clubName string, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > s.maxUploadSize {
		return "", &apperrors.CustomError{
			Err: apperrors.ErrFileTooLarge,
			Message: fmt.Sprintf("File %s exceeds the maximum upload size of %d MB",
				fileHeader.Filename, s.maxUploadSize/(1024*1024)),
		}
	}

	subPath := filestorage.UploadSubPath(clubName, "LOGO", time.Now())
	return s.storage.SaveFile(fileHeader, subPath)
}

// Delete soft-deletes a club. Membership rows are left untouched.
func (s *ClubService) Delete(ctx context.Context, clubID int64) error {
	return s.clubRepo.SoftDelete(ctx, clubID)
}

// GetMembers returns a club's roster.
func (s *ClubService) GetMembers(ctx context.Context, clubID int64) ([]dto.ClubMemberResponse, error) {
	if _, err := s.clubRepo.GetByID(ctx, clubID); err != nil {
		return nil, err
	}

	members, err := s.clubRepo.GetMembers(ctx, clubID)
	if err != nil {
		return nil, err
	}

	roster := make([]dto.ClubMemberResponse, 0, len(members))
	for _, member := range members {
		roster = append(roster, dto.ToClubMemberResponse(member))
	}
	return roster, nil
}

// AddMember adds a user to a club. Adding with role LEADER promotes a
// STUDENT user's global role to LEADER in the same transaction.
func (s *ClubService) AddMember(ctx context.Context, clubID, callerID int64, callerRole models.RoleType, req *dto.AddMemberRequest) (*dto.ClubMemberResponse, error) {
	if err := s.canManage(ctx, clubID, callerID, callerRole); err != nil {
		return nil, err
	}

	if _, err := s.clubRepo.GetByID(ctx, clubID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByIDAny(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.NewValidationError("userId: Cannot add a deactivated user to a club.")
	}

	role := req.Role
	if role == "" {
		role = models.MemberRoleMember
	}

	member := &models.ClubMember{
		ClubID: clubID,
		UserID: user.ID,
		Role:   role,
	}
	if err := s.clubRepo.AddMember(ctx, member, role == models.MemberRoleLeader); err != nil {
		return nil, err
	}

	logger.Info().Int64("clubID", clubID).Int64("userID", user.ID).Str("role", string(role)).
		Msg("Member added to club")

	member.User = user
	resp := dto.ToClubMemberResponse(member)
	return &resp, nil
}

// RemoveMember hard-deletes a membership.
func (s *ClubService) RemoveMember(ctx context.Context, clubID, userID, callerID int64, callerRole models.RoleType) error {
	if err := s.canManage(ctx, clubID, callerID, callerRole); err != nil {
		return err
	}
	return s.clubRepo.RemoveMember(ctx, clubID, userID)
}

func (s *ClubService) toDetail(club *models.Club, members []*models.ClubMember) *dto.ClubDetailResponse {
	roster := make([]dto.ClubMemberResponse, 0, len(members))
	for _, member := range members {
		roster = append(roster, dto.ToClubMemberResponse(member))
	}
	return &dto.ClubDetailResponse{
		ID:          club.ID,
		Name:        club.Name,
		Description: club.Description,
		LogoURL:     s.logoURL(club.LogoPath),
		Phase:       string(club.Phase),
		Members:     roster,
		CreatedAt:   club.CreatedAt,
		UpdatedAt:   club.UpdatedAt,
	}
}

func (s *ClubService) logoURL(logoPath *string) string {
	if logoPath == nil {
		return ""
	}
	return s.storage.URL(*logoPath)
}
