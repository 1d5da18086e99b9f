package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sanghoon/clubhub/internal/pkg/logger"
)

var (
	unsafeChars   = regexp.MustCompile(`[<>:"/\\|?*]`)
	separatorRuns = regexp.MustCompile(`[\s_]+`)
)

// SanitizePathSegment makes a name safe for use as a single directory name:
// path-unsafe characters become underscores, whitespace/underscore runs
// collapse to one underscore, leading/trailing underscores are trimmed.
func SanitizePathSegment(name string) string {
	name = unsafeChars.ReplaceAllString(name, "_")
	name = separatorRuns.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "unknown"
	}
	return name
}

// UploadSubPath builds the storage subdirectory for an uploaded file:
// {year}/{sanitized club name}/{category}, with "no_club" when the file
// is not attached to a club.
func UploadSubPath(clubName string, category string, now time.Time) string {
	segment := "no_club"
	if clubName != "" {
		segment = SanitizePathSegment(clubName)
	}
	if category == "" {
		category = "GENERAL"
	}
	return path.Join(now.Format("2006"), segment, category)
}

// LocalStorage saves files on the local filesystem.
type LocalStorage struct {
	basePath string // root directory where files are stored
	baseURL  string // base URL prefix for serving stored files
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// SaveFile stores an uploaded file under subPath and returns the
// storage-relative path of the stored file. The original filename is not
// used on disk; a uuid basename prevents collisions.
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no file provided")
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	fullDirPath := ls.basePath
	if subPath != "" {
		fullDirPath = filepath.Join(ls.basePath, filepath.FromSlash(subPath))
		if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	ext := filepath.Ext(fileHeader.Filename)
	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	storedPath := path.Join(subPath, uniqueFilename)
	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", storedPath).Msg("File saved")
	return storedPath, nil
}

// URL resolves the absolute URL for a stored file path.
func (ls *LocalStorage) URL(storedPath string) string {
	if storedPath == "" {
		return ""
	}
	return strings.TrimRight(ls.baseURL, "/") + "/" + strings.TrimLeft(storedPath, "/")
}

// Delete removes a stored file. Missing files are treated as already
// deleted.
func (ls *LocalStorage) Delete(storedPath string) error {
	if storedPath == "" {
		return nil
	}

	physicalPath := filepath.Join(ls.basePath, filepath.FromSlash(storedPath))
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
