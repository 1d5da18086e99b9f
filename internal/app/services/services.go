package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/sanghoon/clubhub/internal/app/models"
	"github.com/sanghoon/clubhub/internal/app/repositories"
	"github.com/sanghoon/clubhub/internal/config"
	"github.com/sanghoon/clubhub/internal/pkg/auth"
)

// UserRepository is the user data access surface the services depend on.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDAny(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	StudentIDExists(ctx context.Context, studentID string) (bool, error)
}

// TokenRepository is the refresh token data access surface.
type TokenRepository interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetUserIDByToken(ctx context.Context, token string) (int64, error)
	RevokeToken(ctx context.Context, token string) error
}

// ClubRepository is the club and membership data access surface.
type ClubRepository interface {
	Create(ctx context.Context, club *models.Club) error
	GetByID(ctx context.Context, id int64) (*models.Club, error)
	GetByIDAny(ctx context.Context, id int64) (*models.Club, error)
	List(ctx context.Context, opts repositories.ClubListOptions) ([]*repositories.ClubWithMemberCount, int64, error)
	Update(ctx context.Context, club *models.Club) error
	SoftDelete(ctx context.Context, id int64) error
	GetMembers(ctx context.Context, clubID int64) ([]*models.ClubMember, error)
	IsLeader(ctx context.Context, clubID, userID int64) (bool, error)
	AddMember(ctx context.Context, member *models.ClubMember, promoteToLeader bool) error
	RemoveMember(ctx context.Context, clubID, userID int64) error
}

// FileRepository is the uploaded file data access surface.
type FileRepository interface {
	CreateBatch(ctx context.Context, files []*models.UploadedFile) error
	GetByID(ctx context.Context, id int64) (*models.UploadedFile, error)
	List(ctx context.Context, opts repositories.FileListOptions) ([]*models.UploadedFile, int64, error)
	SoftDelete(ctx context.Context, id int64) error
}

// FileStorage is the blob storage surface.
type FileStorage interface {
	SaveFile(fileHeader *multipart.FileHeader, subPath string) (string, error)
	URL(storedPath string) string
	Delete(storedPath string) error
}

// Services holds all service instances
type Services struct {
	AuthService *AuthService
	ClubService *ClubService
	FileService *FileService
}

// NewServices initializes all services
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, storage FileStorage, cfg *config.Config) *Services {
	return &Services{
		AuthService: NewAuthService(
			repos.UserRepository, repos.TokenRepository, jwtService, cfg.JWT.RotateRefreshTokens),
		ClubService: NewClubService(
			repos.ClubRepository, repos.UserRepository, storage, cfg.MaxUploadSizeBytes()),
		FileService: NewFileService(
			repos.FileRepository, repos.ClubRepository, storage, cfg.MaxUploadSizeBytes()),
	}
}
