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

const defaultMimeType = "application/octet-stream"

// FileListParams carries file listing filters and paging.
type FileListParams struct {
	ClubID   *int64
	Category string
	Page     int
	Size     int
}

// FileService handles upload validation, persistence and metadata
type FileService struct {
	fileRepo      FileRepository
	clubRepo      ClubRepository
	storage       FileStorage
	maxUploadSize int64
}

// NewFileService creates a new FileService
func NewFileService(fileRepo FileRepository, clubRepo ClubRepository, storage FileStorage, maxUploadSize int64) *FileService {
	return &FileService{
		fileRepo:      fileRepo,
		clubRepo:      clubRepo,
		storage:       storage,
		maxUploadSize: maxUploadSize,
	}
}

// Upload validates and stores a batch of files. Validation runs over the
// whole batch before anything is persisted: one oversized file fails the
// entire request and nothing is stored.
func (s *FileService) Upload(ctx context.Context, uploaderID int64, fileHeaders []*multipart.FileHeader, category string, clubID *int64) ([]dto.FileResponse, error) {
	if len(fileHeaders) == 0 {
		return nil, apperrors.NewValidationError("files: No files were provided.")
	}

	if category == "" {
		category = string(models.CategoryGeneral)
	}
	fileCategory := models.FileCategory(category)
	if !fileCategory.Valid() {
		return nil, &apperrors.CustomError{
			Err:     apperrors.ErrInvalidFileCategory,
			Message: fmt.Sprintf("category: %q is not a valid file category.", category),
		}
	}

	clubName := ""
	if clubID != nil {
		club, err := s.clubRepo.GetByID(ctx, *clubID)
		if err != nil {
			return nil, err
		}
		clubName = club.Name
	}

	for _, fh := range fileHeaders {
		if fh.Size > s.maxUploadSize {
			return nil, &apperrors.CustomError{
				Err: apperrors.ErrFileTooLarge,
				Message: fmt.Sprintf("File %s exceeds the maximum upload size of %d MB",
					fh.Filename, s.maxUploadSize/(1024*1024)),
			}
		}
	}

	subPath := filestorage.UploadSubPath(clubName, category, time.Now())

	storedPaths := make([]string, 0, len(fileHeaders))
	records := make([]*models.UploadedFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		storedPath, err := s.storage.SaveFile(fh, subPath)
		if err != nil {
			s.discard(storedPaths)
			return nil, err
		}
		storedPaths = append(storedPaths, storedPath)

		mimeType := fh.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = defaultMimeType
		}

		records = append(records, &models.UploadedFile{
			FilePath:     storedPath,
			OriginalName: fh.Filename,
			Size:         fh.Size,
			MimeType:     mimeType,
			Category:     fileCategory,
			UploadedBy:   uploaderID,
			ClubID:       clubID,
		})
	}

	if err := s.fileRepo.CreateBatch(ctx, records); err != nil {
		s.discard(storedPaths)
		return nil, err
	}

	logger.Info().Int("count", len(records)).Int64("uploaderID", uploaderID).
		Str("category", category).Msg("Files uploaded")

	responses := make([]dto.FileResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, dto.ToFileResponse(record, s.storage.URL(record.FilePath)))
	}
	return responses, nil
}

// discard removes already-stored files after a failed batch.
func (s *FileService) discard(storedPaths []string) {
	for _, path := range storedPaths {
		if err := s.storage.Delete(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Failed to discard stored file")
		}
	}
}

// List returns a page of file metadata matching the filters.
func (s *FileService) List(ctx context.Context, params FileListParams) (*dto.PageResponse, error) {
	opts := repositories.FileListOptions{
		ClubID: params.ClubID,
		Offset: uint64((params.Page - 1) * params.Size),
		Limit:  params.Size,
	}
	if params.Category != "" {
		category := models.FileCategory(params.Category)
		if !category.Valid() {
			return nil, &apperrors.CustomError{
				Err:     apperrors.ErrInvalidFileCategory,
				Message: fmt.Sprintf("category: %q is not a valid file category.", params.Category),
			}
		}
		opts.Category = &category
	}

	files, total, err := s.fileRepo.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	items := make([]dto.FileResponse, 0, len(files))
	for _, file := range files {
		items = append(items, dto.ToFileResponse(file, s.storage.URL(file.FilePath)))
	}

	return dto.NewPageResponse(items, total, params.Page, params.Size), nil
}

// Get returns one file's metadata with its resolved URL.
func (s *FileService) Get(ctx context.Context, id int64) (*dto.FileResponse, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.ToFileResponse(file, s.storage.URL(file.FilePath))
	return &resp, nil
}

// Delete soft-deletes a file record. The stored bytes stay on disk.
func (s *FileService) Delete(ctx context.Context, id int64) error {
	return s.fileRepo.SoftDelete(ctx, id)
}
