package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanghoon/clubhub/internal/app/models"
	"github.com/sanghoon/clubhub/internal/db"
	"github.com/sanghoon/clubhub/internal/pkg/apperrors"
	"github.com/sanghoon/clubhub/internal/pkg/logger"
)

var fileColumns = []string{
	"id", "file_path", "original_name", "size", "mime_type", "category",
	"uploaded_by", "club_id", "ocr_result", "is_active", "created_at", "updated_at",
}

// FileListOptions narrows and pages a file listing.
type FileListOptions struct {
	ClubID   *int64
	Category *models.FileCategory
	Offset   uint64
	Limit    int
}

// FileRepository handles uploaded file database operations
type FileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *pgxpool.Pool) *FileRepository {
	return &FileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanFile(row pgx.Row) (*models.UploadedFile, error) {
	var file models.UploadedFile
	err := row.Scan(
		&file.ID, &file.FilePath, &file.OriginalName, &file.Size, &file.MimeType,
		&file.Category, &file.UploadedBy, &file.ClubID, &file.OCRResult,
		&file.IsActive, &file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// CreateBatch inserts a batch of file records in one transaction so a
// multi-file upload is either fully recorded or not at all.
func (r *FileRepository) CreateBatch(ctx context.Context, files []*models.UploadedFile) error {
	if len(files) == 0 {
		return nil
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		now := time.Now()
		for _, file := range files {
			sql, args, err := r.sb.Insert("uploaded_files").
				Columns("file_path", "original_name", "size", "mime_type", "category",
					"uploaded_by", "club_id", "is_active", "created_at", "updated_at").
				Values(file.FilePath, file.OriginalName, file.Size, file.MimeType, file.Category,
					file.UploadedBy, file.ClubID, true, now, now).
				Suffix("RETURNING id, created_at, updated_at").
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build create file query: %w", err)
			}

			err = tx.QueryRow(ctx, sql, args...).Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)
			if err != nil {
				logger.Error().Err(err).Str("path", file.FilePath).Msg("Error executing create file query")
				return fmt.Errorf("error creating file record: %w", err)
			}
			file.IsActive = true
		}
		return nil
	})
}

// GetByID retrieves an active file by id.
func (r *FileRepository) GetByID(ctx context.Context, id int64) (*models.UploadedFile, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id, "is_active": true})
}

func (r *FileRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.UploadedFile, error) {
	sql, args, err := r.sb.Select(fileColumns...).
		From("uploaded_files").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get file query: %w", err)
	}

	file, err := scanFile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFileNotFound
		}
		logger.Error().Err(err).Msg("Error scanning file row")
		return nil, fmt.Errorf("error retrieving file: %w", err)
	}
	return file, nil
}

// List returns active files matching the options plus the total count of
// matching rows.
func (r *FileRepository) List(ctx context.Context, opts FileListOptions) ([]*models.UploadedFile, int64, error) {
	where := squirrel.Eq{"is_active": true}
	if opts.ClubID != nil {
		where["club_id"] = *opts.ClubID
	}
	if opts.Category != nil {
		where["category"] = *opts.Category
	}

	query := r.sb.Select(fileColumns...).
		From("uploaded_files").
		Where(where).
		OrderBy("created_at DESC")
	if opts.Limit > 0 {
		query = query.Offset(opts.Offset).Limit(uint64(opts.Limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list files query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list files query")
		return nil, 0, fmt.Errorf("error listing files: %w", err)
	}
	defer rows.Close()

	files := make([]*models.UploadedFile, 0)
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning file row: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating file rows: %w", err)
	}

	countSql, countArgs, err := r.sb.Select("COUNT(*)").
		From("uploaded_files").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count files query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting files: %w", err)
	}

	return files, total, nil
}

// SoftDelete deactivates a file record. The stored bytes stay on disk.
func (r *FileRepository) SoftDelete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("uploaded_files").
		Set("is_active", false).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build soft delete file query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("fileID", id).Msg("Error executing soft delete file query")
		return fmt.Errorf("error deleting file: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFileNotFound
	}
	return nil
}
